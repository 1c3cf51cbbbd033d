package catalog

import (
	"github.com/biomatch-omni-server/internal/domain"
)

// materials is the fixed biomaterial reference set, 22 entries verified
// against ASTM/ISO standards. Load-time constants, never mutated.
var materials = []domain.BiomaterialProfile{
	// Metals
	{
		ID:                  "ti6al4v_eli",
		Label:               "Ti-6Al-4V ELI",
		Category:            domain.METAL,
		ElasticModulus:      110,
		YieldStrength:       828,
		Biocompatibility:    0.95,
		Osseointegration:    0.88,
		CorrosionResistance: 0.97,
		WearResistance:      0.70,
		IsBiodegradable:     false,
		Density:             4.43,
		Color:               "#4a90d9",
	},
	{
		ID:                  "ti6al7nb",
		Label:               "Ti-6Al-7Nb (F1295)",
		Category:            domain.METAL,
		ElasticModulus:      105,
		YieldStrength:       800,
		Biocompatibility:    0.96,
		Osseointegration:    0.87,
		CorrosionResistance: 0.97,
		WearResistance:      0.70,
		IsBiodegradable:     false,
		Density:             4.52,
		Color:               "#5ba3e8",
	},
	{
		ID:                  "cp_ti_g4",
		Label:               "CP-Ti Grade 4 (F67)",
		Category:            domain.METAL,
		ElasticModulus:      103,
		YieldStrength:       480,
		Biocompatibility:    0.98,
		Osseointegration:    0.95,
		CorrosionResistance: 0.98,
		WearResistance:      0.60,
		IsBiodegradable:     false,
		Density:             4.51,
		Color:               "#7ec8e3",
	},
	{
		ID:                  "cp_ti_g2",
		Label:               "CP-Ti Grade 2 (F67)",
		Category:            domain.METAL,
		ElasticModulus:      102,
		YieldStrength:       275,
		Biocompatibility:    0.99,
		Osseointegration:    0.94,
		CorrosionResistance: 0.98,
		WearResistance:      0.55,
		IsBiodegradable:     false,
		Density:             4.51,
		Color:               "#a8d8ea",
	},
	{
		ID:                  "cocrmo_f75",
		Label:               "CoCrMo (ASTM F75)",
		Category:            domain.METAL,
		ElasticModulus:      230,
		YieldStrength:       450,
		Biocompatibility:    0.80,
		Osseointegration:    0.72,
		CorrosionResistance: 0.88,
		WearResistance:      0.85,
		IsBiodegradable:     false,
		Density:             8.30,
		Color:               "#9b59b6",
	},
	{
		ID:                  "cocrw_f90",
		Label:               "CoCrW (ASTM F90)",
		Category:            domain.METAL,
		ElasticModulus:      227,
		YieldStrength:       483, // annealed minimum
		Biocompatibility:    0.78,
		Osseointegration:    0.55,
		CorrosionResistance: 0.87,
		WearResistance:      0.84,
		IsBiodegradable:     false,
		Density:             9.10,
		Color:               "#8e44ad",
	},
	{
		ID:                  "ss316l",
		Label:               "316L SS (ASTM F138)",
		Category:            domain.METAL,
		ElasticModulus:      197,
		YieldStrength:       240,
		Biocompatibility:    0.72,
		Osseointegration:    0.61,
		CorrosionResistance: 0.78,
		WearResistance:      0.72,
		IsBiodegradable:     false,
		Density:             7.90,
		Color:               "#95a5a6",
	},
	{
		ID:                  "nitinol",
		Label:               "Nitinol (NiTi)",
		Category:            domain.METAL,
		ElasticModulus:      75, // austenitic phase
		YieldStrength:       195,
		Biocompatibility:    0.82,
		Osseointegration:    0.50,
		CorrosionResistance: 0.85,
		WearResistance:      0.65,
		IsBiodegradable:     false,
		Density:             6.45,
		Color:               "#f39c12",
	},
	{
		ID:                  "porous_ta",
		Label:               "Porous Tantalum",
		Category:            domain.METAL,
		ElasticModulus:      3.0, // engineered porous form
		YieldStrength:       100,
		Biocompatibility:    0.97,
		Osseointegration:    0.93,
		CorrosionResistance: 0.98,
		WearResistance:      0.75,
		IsBiodegradable:     false,
		Density:             2.80,
		Color:               "#1abc9c",
	},
	{
		ID:                  "we43_mg",
		Label:               "WE43 Mg Alloy",
		Category:            domain.METAL,
		ElasticModulus:      45,
		YieldStrength:       227,
		Biocompatibility:    0.80,
		Osseointegration:    0.72,
		CorrosionResistance: 0.42, // CR ~1.3-2.6 mm/yr in SBF
		WearResistance:      0.50,
		IsBiodegradable:     true,
		Density:             1.84,
		Color:               "#e67e22",
	},
	{
		ID:                  "az31b_mg",
		Label:               "AZ31B Mg Alloy",
		Category:            domain.METAL,
		ElasticModulus:      45.41,
		YieldStrength:       252,
		Biocompatibility:    0.75,
		Osseointegration:    0.68,
		CorrosionResistance: 0.30, // CR up to 0.91 mm/yr in DMEM
		WearResistance:      0.48,
		IsBiodegradable:     true,
		Density:             1.77,
		Color:               "#f1b24a",
	},

	// Ceramics
	{
		ID:                  "hydroxyapatite",
		Label:               "Hydroxyapatite (HA)",
		Category:            domain.CERAMIC,
		ElasticModulus:      80,
		YieldStrength:       0, // brittle ceramic, no ductile yield
		Biocompatibility:    0.99,
		Osseointegration:    0.97,
		CorrosionResistance: 1.00,
		WearResistance:      0.55,
		IsBiodegradable:     false,
		Density:             3.16,
		Color:               "#f4d03f",
	},
	{
		ID:                  "bioglass_45s5",
		Label:               "45S5 Bioglass",
		Category:            domain.CERAMIC,
		ElasticModulus:      35,
		YieldStrength:       0,
		Biocompatibility:    0.98,
		Osseointegration:    0.96,
		CorrosionResistance: 0.50, // intentionally resorbable
		WearResistance:      0.30,
		IsBiodegradable:     true,
		Density:             2.70,
		Color:               "#45b39d",
	},
	{
		ID:                  "zirconia_ytzp",
		Label:               "3Y-TZP Zirconia",
		Category:            domain.CERAMIC,
		ElasticModulus:      205,
		YieldStrength:       0,
		Biocompatibility:    0.95,
		Osseointegration:    0.72,
		CorrosionResistance: 0.99,
		WearResistance:      0.88,
		IsBiodegradable:     false,
		Density:             6.05,
		Color:               "#d5d8dc",
	},
	{
		ID:                  "alumina",
		Label:               "Alumina (Al2O3)",
		Category:            domain.CERAMIC,
		ElasticModulus:      380,
		YieldStrength:       0,
		Biocompatibility:    0.95,
		Osseointegration:    0.60,
		CorrosionResistance: 0.99,
		WearResistance:      0.92,
		IsBiodegradable:     false,
		Density:             3.98,
		Color:               "#aab7b8",
	},
	{
		ID:                  "zta",
		Label:               "ZTA (Al2O3 + ZrO2)",
		Category:            domain.CERAMIC,
		ElasticModulus:      350,
		YieldStrength:       0,
		Biocompatibility:    0.95,
		Osseointegration:    0.62,
		CorrosionResistance: 0.99,
		WearResistance:      0.95,
		IsBiodegradable:     false,
		Density:             4.20,
		Color:               "#c0c3c4",
	},
	{
		ID:                  "silicon_nitride",
		Label:               "Silicon Nitride (Si3N4)",
		Category:            domain.CERAMIC,
		ElasticModulus:      300,
		YieldStrength:       0,
		Biocompatibility:    0.95,
		Osseointegration:    0.90,
		CorrosionResistance: 0.98,
		WearResistance:      0.90,
		IsBiodegradable:     false,
		Density:             3.20,
		Color:               "#aed6f1",
	},
	{
		ID:                  "beta_tcp",
		Label:               "Beta-Tricalcium Phosphate",
		Category:            domain.CERAMIC,
		ElasticModulus:      33,
		YieldStrength:       0,
		Biocompatibility:    0.98,
		Osseointegration:    0.88,
		CorrosionResistance: 0.45, // intentionally resorbable
		WearResistance:      0.30,
		IsBiodegradable:     true,
		Density:             3.07,
		Color:               "#a9cce3",
	},

	// Polymers
	{
		ID:                  "peek",
		Label:               "PEEK-OPTIMA",
		Category:            domain.POLYMER,
		ElasticModulus:      3.6,
		YieldStrength:       100,
		Biocompatibility:    0.92,
		Osseointegration:    0.52, // bioinert unmodified
		CorrosionResistance: 0.99,
		WearResistance:      0.65,
		IsBiodegradable:     false,
		Density:             1.32,
		Color:               "#27ae60",
	},
	{
		ID:                  "uhmwpe",
		Label:               "UHMWPE",
		Category:            domain.POLYMER,
		ElasticModulus:      0.69,
		YieldStrength:       21,
		Biocompatibility:    0.92,
		Osseointegration:    0.30, // bearing surface only
		CorrosionResistance: 0.99,
		WearResistance:      0.80, // cross-linked variant standard
		IsBiodegradable:     false,
		Density:             0.93,
		Color:               "#76b7b2",
	},
	{
		ID:                  "plga",
		Label:               "PLGA (75:25)",
		Category:            domain.POLYMER,
		ElasticModulus:      0.9,
		YieldStrength:       36.6,
		Biocompatibility:    0.88,
		Osseointegration:    0.35,
		CorrosionResistance: 0.30, // biodegradable hydrolysis
		WearResistance:      0.30,
		IsBiodegradable:     true,
		Density:             1.34,
		Color:               "#58d68d",
	},
	{
		ID:                  "plla",
		Label:               "PLLA",
		Category:            domain.POLYMER,
		ElasticModulus:      4.0,
		YieldStrength:       60,
		Biocompatibility:    0.90,
		Osseointegration:    0.38,
		CorrosionResistance: 0.35,
		WearResistance:      0.32,
		IsBiodegradable:     true,
		Density:             1.25,
		Color:               "#82e0aa",
	},
}
