// Package seed generates realistic Mexican-market listing fixtures for
// development and demo databases.
package seed

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"real-estate-listings/internal/database"
	"real-estate-listings/internal/models"
)

// Profile selects a generation preset.
type Profile int

const (
	ProfileRegular Profile = iota
	ProfileLuxury
	ProfileForSale
	ProfileForRent
	ProfileSold
)

var mexicanStates = []string{
	"Aguascalientes", "Baja California", "Baja California Sur", "Campeche",
	"Chiapas", "Chihuahua", "Ciudad de México", "Coahuila", "Colima",
	"Durango", "Estado de México", "Guanajuato", "Guerrero", "Hidalgo",
	"Jalisco", "Michoacán", "Morelos", "Nayarit", "Nuevo León", "Oaxaca",
	"Puebla", "Querétaro", "Quintana Roo", "San Luis Potosí", "Sinaloa",
	"Sonora", "Tabasco", "Tamaulipas", "Tlaxcala", "Veracruz", "Yucatán",
	"Zacatecas",
}

var citiesByState = map[string][]string{
	"Aguascalientes":      {"Aguascalientes", "Calvillo", "Rincón de Romos"},
	"Baja California":     {"Tijuana", "Mexicali", "Ensenada", "Tecate", "Rosarito"},
	"Baja California Sur": {"La Paz", "Los Cabos", "Loreto", "Comondú"},
	"Campeche":            {"Campeche", "Ciudad del Carmen", "Champotón"},
	"Chiapas":             {"Tuxtla Gutiérrez", "San Cristóbal de las Casas", "Tapachula", "Comitán"},
	"Chihuahua":           {"Chihuahua", "Ciudad Juárez", "Delicias", "Cuauhtémoc"},
	"Ciudad de México":    {"Álvaro Obregón", "Azcapotzalco", "Benito Juárez", "Coyoacán", "Cuauhtémoc", "Miguel Hidalgo", "Tlalpan", "Xochimilco"},
	"Coahuila":            {"Saltillo", "Torreón", "Monclova", "Piedras Negras"},
	"Colima":              {"Colima", "Manzanillo", "Tecomán", "Villa de Álvarez"},
	"Durango":             {"Durango", "Gómez Palacio", "Lerdo", "Santiago Papasquiaro"},
	"Estado de México":    {"Toluca", "Naucalpan", "Tlalnepantla", "Nezahualcóyotl", "Ecatepec", "Cuautitlán"},
	"Guanajuato":          {"León", "Guanajuato", "Irapuato", "Celaya", "Salamanca", "Pénjamo"},
	"Guerrero":            {"Acapulco", "Chilpancingo", "Iguala", "Taxco", "Zihuatanejo"},
	"Hidalgo":             {"Pachuca", "Tulancingo", "Tizayuca", "Huejutla"},
	"Jalisco":             {"Guadalajara", "Zapopan", "Tlaquepaque", "Tonalá", "Puerto Vallarta", "Tlajomulco"},
	"Michoacán":           {"Morelia", "Uruapan", "Zamora", "Lázaro Cárdenas", "Apatzingán"},
	"Morelos":             {"Cuernavaca", "Jiutepec", "Temixco", "Cuautla"},
	"Nayarit":             {"Tepic", "Bahía de Banderas", "Xalisco", "Santiago Ixcuintla"},
	"Nuevo León":          {"Monterrey", "Guadalupe", "San Nicolás de los Garza", "Apodaca", "Santa Catarina"},
	"Oaxaca":              {"Oaxaca de Juárez", "Salina Cruz", "Tuxtepec", "Juchitán"},
	"Puebla":              {"Puebla", "Tehuacán", "San Martín Texmelucan", "Atlixco"},
	"Querétaro":           {"Santiago de Querétaro", "San Juan del Río", "Corregidora", "El Marqués"},
	"Quintana Roo":        {"Cancún", "Chetumal", "Playa del Carmen", "Cozumel", "Tulum"},
	"San Luis Potosí":     {"San Luis Potosí", "Soledad de Graciano Sánchez", "Ciudad Valles", "Matehuala"},
	"Sinaloa":             {"Culiacán", "Mazatlán", "Los Mochis", "Guasave"},
	"Sonora":              {"Hermosillo", "Ciudad Obregón", "Nogales", "Navojoa"},
	"Tabasco":             {"Villahermosa", "Cárdenas", "Comalcalco", "Huimanguillo"},
	"Tamaulipas":          {"Reynosa", "Matamoros", "Nuevo Laredo", "Tampico", "Ciudad Victoria"},
	"Tlaxcala":            {"Tlaxcala", "Apizaco", "Huamantla", "Zacatelco"},
	"Veracruz":            {"Veracruz", "Xalapa", "Coatzacoalcos", "Córdoba", "Orizaba", "Poza Rica"},
	"Yucatán":             {"Mérida", "Valladolid", "Progreso", "Tizimín"},
	"Zacatecas":           {"Zacatecas", "Fresnillo", "Guadalupe", "Jerez"},
}

// Mexican postal codes encode the state in the first two digits.
var postalPrefixByState = map[string][]string{
	"Aguascalientes":      {"20"},
	"Baja California":     {"21"},
	"Baja California Sur": {"23"},
	"Campeche":            {"24"},
	"Chiapas":             {"29"},
	"Chihuahua":           {"31"},
	"Ciudad de México":    {"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12", "13", "14", "15", "16"},
	"Coahuila":            {"25"},
	"Colima":              {"28"},
	"Durango":             {"34"},
	"Estado de México":    {"50", "51", "52", "53", "54", "55", "56", "57"},
	"Guanajuato":          {"36"},
	"Guerrero":            {"39"},
	"Hidalgo":             {"42"},
	"Jalisco":             {"44", "45", "46", "47", "48", "49"},
	"Michoacán":           {"58", "59", "60", "61"},
	"Morelos":             {"62"},
	"Nayarit":             {"63"},
	"Nuevo León":          {"64", "65", "66", "67"},
	"Oaxaca":              {"68", "69", "70", "71"},
	"Puebla":              {"72", "73", "74", "75"},
	"Querétaro":           {"76"},
	"Quintana Roo":        {"77"},
	"San Luis Potosí":     {"78"},
	"Sinaloa":             {"80", "81", "82"},
	"Sonora":              {"83"},
	"Tabasco":             {"86"},
	"Tamaulipas":          {"87", "88", "89"},
	"Tlaxcala":            {"90"},
	"Veracruz":            {"91", "92", "93", "94", "95", "96"},
	"Yucatán":             {"97"},
	"Zacatecas":           {"98"},
}

var streetTypes = []string{"Calle", "Avenida", "Boulevard", "Privada", "Cerrada", "Callejón"}

var streetNames = []string{
	"Benito Juárez", "Miguel Hidalgo", "Francisco I. Madero", "Emiliano Zapata",
	"Morelos", "Insurgentes", "Reforma", "Revolución", "16 de Septiembre",
	"Independencia", "Constitución", "Libertad", "Progreso", "Juárez",
	"Las Flores", "Los Pinos", "del Sol", "de la Paz", "Principal",
	"Centro", "Norte", "Sur", "Oriente", "Poniente",
}

var featurePool = []string{
	"hardwood_floors",
	"granite_countertops",
	"stainless_steel_appliances",
	"walk_in_closet",
	"fireplace",
	"balcony",
	"patio",
	"air_conditioning",
	"dishwasher",
	"laundry_in_unit",
	"pet_friendly",
	"parking",
}

var luxuryFeatures = []string{
	"hardwood_floors",
	"granite_countertops",
	"stainless_steel_appliances",
	"walk_in_closet",
	"fireplace",
	"master_suite",
	"gourmet_kitchen",
	"wine_cellar",
	"home_theater",
	"smart_home",
}

var agentNames = []string{
	"María González", "José Hernández", "Ana Martínez", "Luis Rodríguez",
	"Carmen López", "Carlos Pérez", "Sofía Ramírez", "Miguel Torres",
	"Lucía Flores", "Jorge Sánchez",
}

var titleAdjectives = []string{"Amplia", "Moderna", "Acogedora", "Luminosa", "Renovada", "Céntrica", "Exclusiva"}

var titleNouns = map[models.PropertyType]string{
	models.PropertyTypeCasa:         "casa",
	models.PropertyTypeCondominio:   "condominio",
	models.PropertyTypeDepartamento: "departamento",
	models.PropertyTypeTownhouse:    "townhouse",
	models.PropertyTypeDuplex:       "dúplex",
}

// Generator produces Property fixtures from a deterministic random source.
type Generator struct {
	rng *rand.Rand
	mls int
}

// NewGenerator returns a generator seeded with the given value, so that the
// same seed reproduces the same fixtures.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed)), mls: 10000000}
}

// Property generates one fixture for the given profile.
func (g *Generator) Property(profile Profile) *models.Property {
	state := pick(g.rng, mexicanStates)
	city := pick(g.rng, citiesByState[state])
	zip := g.zipCode(state)

	squareFeet := g.between(500, 5000)
	price := float64(g.between(100000, 2000000))
	propertyType := pick(g.rng, models.ValidPropertyTypes())
	status := pick(g.rng, models.ValidPropertyStatuses())

	p := &models.Property{
		Title:        ptr(g.title(propertyType, city)),
		Description:  ptr(g.description(city, state)),
		Address:      ptr(g.streetAddress()),
		City:         &city,
		State:        &state,
		ZipCode:      &zip,
		Latitude:     ptr(g.floatBetween(14.5, 32.7)),
		Longitude:    ptr(g.floatBetween(-118.4, -86.7)),
		SquareFeet:   &squareFeet,
		Bedrooms:     ptr(g.between(1, 6)),
		Bathrooms:    ptr(g.between(1, 4)),
		Floors:       ptr(g.between(1, 3)),
		Price:        &price,
		PropertyType: &propertyType,
		Status:       status,
		YearBuilt:    ptr(g.between(1950, 2024)),
		LotSize:      ptr(round2(g.floatBetween(0.1, 2.0))),
		GarageSpaces: ptr(g.between(0, 3)),
		HasBasement:  g.chance(30),
		HasPool:      g.chance(20),
		HasGarden:    g.chance(40),
		Features:     g.features(featurePool, g.between(2, 6)),
		Metadata:     g.metadata(),
	}
	if g.chance(60) {
		p.MonthlyRent = ptr(float64(g.between(1500, 100000)))
	}
	p.PropertyTaxes = ptr(float64(g.between(2000, 15000)))

	switch profile {
	case ProfileLuxury:
		sqft := g.between(3000, 8000)
		luxPrice := float64(g.between(800000, 5000000))
		p.SquareFeet = &sqft
		p.Bedrooms = ptr(g.between(4, 8))
		p.Bathrooms = ptr(g.between(3, 6))
		p.Floors = ptr(g.between(2, 4))
		p.Price = &luxPrice
		p.LotSize = ptr(round2(g.floatBetween(0.5, 3.0)))
		p.GarageSpaces = ptr(g.between(2, 4))
		p.HasBasement = g.chance(60)
		p.HasPool = g.chance(70)
		p.HasGarden = g.chance(80)
		p.Features = append(models.StringList{}, luxuryFeatures...)
	case ProfileForSale:
		p.Status = models.PropertyStatusDisponible
		p.MonthlyRent = nil
	case ProfileForRent:
		p.Status = models.PropertyStatusDisponible
		p.Price = nil
		p.PricePerSqft = nil
		p.MonthlyRent = ptr(float64(g.between(800, 5000)))
	case ProfileSold:
		p.Status = models.PropertyStatusVendida
	}

	p.RecalculatePricePerSqft()
	return p
}

// Plan is a profile with a count, matching the shape of a seeding run.
type Plan struct {
	Profile Profile
	Count   int
}

// DefaultPlan mirrors the seeding mix used for demo environments.
func DefaultPlan() []Plan {
	return []Plan{
		{ProfileRegular, 1000},
		{ProfileLuxury, 500},
		{ProfileForSale, 1110},
		{ProfileForRent, 800},
		{ProfileSold, 300},
	}
}

// Run executes the plans against the store, returning the number of rows
// inserted.
func Run(ctx context.Context, store database.Store, g *Generator, plans []Plan) (int, error) {
	inserted := 0
	for _, plan := range plans {
		for i := 0; i < plan.Count; i++ {
			if err := store.CreateProperty(ctx, g.Property(plan.Profile)); err != nil {
				return inserted, fmt.Errorf("insert property %d: %w", inserted+1, err)
			}
			inserted++
		}
	}
	return inserted, nil
}

func (g *Generator) title(t models.PropertyType, city string) string {
	return fmt.Sprintf("%s %s en %s", pick(g.rng, titleAdjectives), titleNouns[t], city)
}

func (g *Generator) description(city, state string) string {
	return fmt.Sprintf(
		"Propiedad ubicada en %s, %s. Excelente ubicación cerca de escuelas, comercios y transporte público. Ideal para familias que buscan comodidad y plusvalía.",
		city, state)
}

func (g *Generator) streetAddress() string {
	return fmt.Sprintf("%s %s #%d", pick(g.rng, streetTypes), pick(g.rng, streetNames), g.between(1, 9999))
}

func (g *Generator) zipCode(state string) string {
	prefixes, ok := postalPrefixByState[state]
	if !ok {
		prefixes = []string{"99"}
	}
	return fmt.Sprintf("MX-%s%03d", pick(g.rng, prefixes), g.rng.Intn(1000))
}

func (g *Generator) features(pool []string, n int) models.StringList {
	idx := g.rng.Perm(len(pool))
	if n > len(pool) {
		n = len(pool)
	}
	out := make(models.StringList, 0, n)
	for _, i := range idx[:n] {
		out = append(out, pool[i])
	}
	return out
}

func (g *Generator) metadata() models.JSONMap {
	g.mls++
	m := models.JSONMap{
		"mls_number":    fmt.Sprintf("%d", g.mls),
		"listing_agent": pick(g.rng, agentNames),
	}
	if g.chance(40) {
		m["last_renovated"] = fmt.Sprintf("%d", g.between(2000, 2024))
	}
	return m
}

func (g *Generator) between(min, max int) int {
	return min + g.rng.Intn(max-min+1)
}

func (g *Generator) floatBetween(min, max float64) float64 {
	return min + g.rng.Float64()*(max-min)
}

func (g *Generator) chance(percent int) bool {
	return g.rng.Intn(100) < percent
}

func pick[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

func ptr[T any](v T) *T {
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
