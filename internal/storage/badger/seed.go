package badger

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vigia/internal/common"
	"github.com/ternarybob/vigia/internal/interfaces"
	"github.com/ternarybob/vigia/internal/models"
)

type comunaSeed struct {
	name    string
	aliases []string
	lat     float64
	lon     float64
}

type regionSeed struct {
	name    string
	aliases []string
	lat     float64
	lon     float64
	comunas []comunaSeed
}

// chileTerritories is the seeded gazetteer: the 16 regions plus the comunas
// that dominate territorial risk coverage. The catalog is editable through
// the external management surface afterwards.
var chileTerritories = []regionSeed{
	{
		name: "Arica y Parinacota", aliases: []string{"XV Región"}, lat: -18.594, lon: -69.478,
		comunas: []comunaSeed{
			{name: "Arica", lat: -18.478, lon: -70.321},
			{name: "Putre", lat: -18.195, lon: -69.559},
		},
	},
	{
		name: "Tarapacá", aliases: []string{"I Región"}, lat: -20.202, lon: -69.288,
		comunas: []comunaSeed{
			{name: "Iquique", lat: -20.230, lon: -70.135},
			{name: "Alto Hospicio", lat: -20.250, lon: -70.100},
			{name: "Pozo Almonte", lat: -20.260, lon: -69.786},
		},
	},
	{
		name: "Antofagasta", aliases: []string{"II Región"}, lat: -23.839, lon: -69.287,
		comunas: []comunaSeed{
			{name: "Antofagasta", lat: -23.650, lon: -70.400},
			{name: "Calama", lat: -22.456, lon: -68.924},
			{name: "Tocopilla", lat: -22.092, lon: -70.198},
			{name: "Mejillones", lat: -23.100, lon: -70.450},
		},
	},
	{
		name: "Atacama", aliases: []string{"III Región"}, lat: -27.566, lon: -70.050,
		comunas: []comunaSeed{
			{name: "Copiapó", aliases: []string{"Copiapo"}, lat: -27.366, lon: -70.332},
			{name: "Vallenar", lat: -28.576, lon: -70.759},
			{name: "Chañaral", lat: -26.348, lon: -70.622},
		},
	},
	{
		name: "Coquimbo", aliases: []string{"IV Región"}, lat: -29.959, lon: -71.338,
		comunas: []comunaSeed{
			{name: "La Serena", lat: -29.903, lon: -71.252},
			{name: "Coquimbo", lat: -29.953, lon: -71.339},
			{name: "Ovalle", lat: -30.601, lon: -71.199},
			{name: "Illapel", lat: -31.633, lon: -71.166},
		},
	},
	{
		name: "Valparaíso", aliases: []string{"V Región", "Valparaiso"}, lat: -33.047, lon: -71.613,
		comunas: []comunaSeed{
			{name: "Valparaíso", aliases: []string{"Valparaiso"}, lat: -33.047, lon: -71.613},
			{name: "Viña del Mar", aliases: []string{"Vina del Mar"}, lat: -33.024, lon: -71.552},
			{name: "Quilpué", aliases: []string{"Quilpue"}, lat: -33.047, lon: -71.442},
			{name: "San Antonio", lat: -33.593, lon: -71.621},
			{name: "Quillota", lat: -32.883, lon: -71.249},
			{name: "Los Andes", lat: -32.834, lon: -70.598},
		},
	},
	{
		name: "Metropolitana de Santiago", aliases: []string{"Región Metropolitana", "RM", "Metropolitana"}, lat: -33.464, lon: -70.648,
		comunas: []comunaSeed{
			{name: "Santiago", aliases: []string{"Santiago Centro"}, lat: -33.437, lon: -70.650},
			{name: "Puente Alto", lat: -33.611, lon: -70.575},
			{name: "Maipú", aliases: []string{"Maipu"}, lat: -33.511, lon: -70.757},
			{name: "Las Condes", lat: -33.408, lon: -70.567},
			{name: "Providencia", lat: -33.431, lon: -70.609},
			{name: "San Bernardo", lat: -33.592, lon: -70.699},
			{name: "Melipilla", lat: -33.686, lon: -71.213},
			{name: "Colina", lat: -33.204, lon: -70.675},
		},
	},
	{
		name: "O'Higgins", aliases: []string{"Libertador General Bernardo O'Higgins", "VI Región"}, lat: -34.576, lon: -71.002,
		comunas: []comunaSeed{
			{name: "Rancagua", lat: -34.170, lon: -70.741},
			{name: "San Fernando", lat: -34.585, lon: -70.989},
			{name: "Rengo", lat: -34.406, lon: -70.858},
			{name: "Machalí", aliases: []string{"Machali"}, lat: -34.181, lon: -70.649},
		},
	},
	{
		name: "Maule", aliases: []string{"VII Región"}, lat: -35.518, lon: -71.668,
		comunas: []comunaSeed{
			{name: "Talca", lat: -35.426, lon: -71.655},
			{name: "Curicó", aliases: []string{"Curico"}, lat: -34.983, lon: -71.239},
			{name: "Linares", lat: -35.846, lon: -71.593},
			{name: "Constitución", aliases: []string{"Constitucion"}, lat: -35.333, lon: -72.416},
		},
	},
	{
		name: "Ñuble", aliases: []string{"XVI Región", "Nuble"}, lat: -36.723, lon: -71.983,
		comunas: []comunaSeed{
			{name: "Chillán", aliases: []string{"Chillan"}, lat: -36.606, lon: -72.103},
			{name: "San Carlos", lat: -36.425, lon: -71.958},
		},
	},
	{
		name: "Biobío", aliases: []string{"VIII Región", "Bio Bio", "Biobio"}, lat: -37.446, lon: -72.141,
		comunas: []comunaSeed{
			{name: "Concepción", aliases: []string{"Concepcion"}, lat: -36.827, lon: -73.050},
			{name: "Talcahuano", lat: -36.724, lon: -73.117},
			{name: "Los Ángeles", aliases: []string{"Los Angeles"}, lat: -37.469, lon: -72.354},
			{name: "Coronel", lat: -37.029, lon: -73.158},
			{name: "Lota", lat: -37.089, lon: -73.157},
		},
	},
	{
		name: "La Araucanía", aliases: []string{"IX Región", "Araucanía", "Araucania"}, lat: -38.948, lon: -72.331,
		comunas: []comunaSeed{
			{name: "Temuco", lat: -38.736, lon: -72.590},
			{name: "Villarrica", lat: -39.286, lon: -72.228},
			{name: "Angol", lat: -37.795, lon: -72.716},
			{name: "Ercilla", lat: -38.055, lon: -72.379},
		},
	},
	{
		name: "Los Ríos", aliases: []string{"XIV Región", "Los Rios"}, lat: -39.981, lon: -73.024,
		comunas: []comunaSeed{
			{name: "Valdivia", lat: -39.819, lon: -73.245},
			{name: "La Unión", aliases: []string{"La Union"}, lat: -40.293, lon: -73.082},
		},
	},
	{
		name: "Los Lagos", aliases: []string{"X Región"}, lat: -41.919, lon: -72.942,
		comunas: []comunaSeed{
			{name: "Puerto Montt", lat: -41.469, lon: -72.942},
			{name: "Osorno", lat: -40.574, lon: -73.132},
			{name: "Castro", lat: -42.481, lon: -73.763},
			{name: "Ancud", lat: -41.870, lon: -73.828},
		},
	},
	{
		name: "Aysén", aliases: []string{"XI Región", "Aysen"}, lat: -45.986, lon: -73.768,
		comunas: []comunaSeed{
			{name: "Coyhaique", aliases: []string{"Coihaique"}, lat: -45.571, lon: -72.068},
			{name: "Puerto Aysén", aliases: []string{"Puerto Aysen"}, lat: -45.403, lon: -72.691},
		},
	},
	{
		name: "Magallanes", aliases: []string{"XII Región", "Magallanes y la Antártica Chilena"}, lat: -52.368, lon: -70.985,
		comunas: []comunaSeed{
			{name: "Punta Arenas", lat: -53.163, lon: -70.917},
			{name: "Puerto Natales", lat: -51.726, lon: -72.507},
		},
	},
}

type sourceSeed struct {
	name        string
	url         string
	weight      float64
	credibility float64
	official    bool
}

var chileSources = []sourceSeed{
	{"Gobierno de Chile - Noticias", "https://www.gob.cl/noticias/feed/rss/", 1.5, 0.95, true},
	{"Biblioteca del Congreso Nacional", "https://www.bcn.cl/rss", 1.4, 0.95, true},
	{"SII - Noticias", "https://www.sii.cl/pagina/actualizada/noticias/rss/siiall_rss.xml", 1.3, 0.90, true},
	{"CSIRT Nacional - Alertas", "https://csirt.gob.cl/rss/alertas", 1.4, 0.95, true},
	{"Ministerio de Economía", "https://www.economia.gob.cl/category/noticias/feed", 1.2, 0.85, true},
	{"Google News - Conflicto territorial Chile", "https://news.google.com/rss/search?q=conflicto+territorial+Chile&hl=es-419&gl=CL&ceid=CL:es-419", 1.0, 0.70, false},
	{"Google News - Protesta Chile", "https://news.google.com/rss/search?q=protesta+Chile&hl=es-419&gl=CL&ceid=CL:es-419", 1.0, 0.65, false},
	{"Google News - Sanción ambiental Chile", "https://news.google.com/rss/search?q=sanción+ambiental+Chile&hl=es-419&gl=CL&ceid=CL:es-419", 1.2, 0.75, false},
}

// SeedTenant loads the default gazetteer, sources and alert rule for a
// tenant that has no rows yet. Safe to call on every startup.
func SeedTenant(ctx context.Context, manager interfaces.StorageManager, tenantID string, logger arbor.ILogger) error {
	count, err := manager.Territories().Count(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to check territory catalog: %w", err)
	}

	if count == 0 {
		seeded := 0
		for _, region := range chileTerritories {
			lat, lon := region.lat, region.lon
			parent := &models.Territory{
				ID:        common.NewTerritoryID(),
				TenantID:  tenantID,
				Name:      region.name,
				Level:     models.LevelRegion,
				Latitude:  &lat,
				Longitude: &lon,
				Aliases:   region.aliases,
				Enabled:   true,
			}
			if err := manager.Territories().Upsert(ctx, parent); err != nil {
				return err
			}
			seeded++

			for _, comuna := range region.comunas {
				clat, clon := comuna.lat, comuna.lon
				child := &models.Territory{
					ID:        common.NewTerritoryID(),
					TenantID:  tenantID,
					Name:      comuna.name,
					Level:     models.LevelComuna,
					ParentID:  parent.ID,
					Latitude:  &clat,
					Longitude: &clon,
					Aliases:   comuna.aliases,
					Enabled:   true,
				}
				if err := manager.Territories().Upsert(ctx, child); err != nil {
					return err
				}
				seeded++
			}
		}
		logger.Info().Str("tenant", tenantID).Int("territories", seeded).Msg("Seeded territory catalog")
	}

	srcCount, err := manager.Sources().Count(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to check sources: %w", err)
	}
	if srcCount == 0 {
		for _, seed := range chileSources {
			src := &models.Source{
				ID:               common.NewSourceID(),
				TenantID:         tenantID,
				Name:             seed.name,
				URL:              seed.url,
				Type:             "rss",
				Language:         "es",
				Weight:           seed.weight,
				CredibilityScore: seed.credibility,
				Official:         seed.official,
				Enabled:          true,
			}
			if err := manager.Sources().Upsert(ctx, src); err != nil {
				return err
			}
		}
		logger.Info().Str("tenant", tenantID).Int("sources", len(chileSources)).Msg("Seeded feed sources")
	}

	ruleCount, err := manager.Alerts().RuleCount(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("failed to check alert rules: %w", err)
	}
	if ruleCount == 0 {
		rule := &models.AlertRule{
			ID:            common.NewRuleID(),
			TenantID:      tenantID,
			Name:          "Riesgo alto",
			MinProb:       0.65,
			MinConfidence: 0.45,
			Enabled:       true,
		}
		if err := manager.Alerts().UpsertRule(ctx, rule); err != nil {
			return err
		}
		logger.Info().Str("tenant", tenantID).Msg("Seeded default alert rule")
	}

	return nil
}
