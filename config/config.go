// SPDX-License-Identifier: MIT

package config

// Config is the complete run configuration.
type Config struct {
	Cepheids    Cepheids    `yaml:"cepheids" envconfig:"CEPHEIDS"`
	TRGB        TRGB        `yaml:"trgb" envconfig:"TRGB"`
	SNe         SNe         `yaml:"sne" envconfig:"SNE"`
	Outliers    Outliers    `yaml:"outliers" envconfig:"OUTLIERS"`
	Corrections Corrections `yaml:"corrections" envconfig:"CORRECTIONS"`
	Physics     Physics     `yaml:"physics" envconfig:"PHYSICS"`
	Sweep       Sweep       `yaml:"sweep" envconfig:"SWEEP"`
	Paths       Paths       `yaml:"paths" envconfig:"PATHS"`
	Logging     Logging     `yaml:"logging" envconfig:"LOGGING"`
}

// Cepheids configures the Cepheid rung.
type Cepheids struct {
	Include      bool    `yaml:"include" envconfig:"INCLUDE"`
	IncludeMW    bool    `yaml:"include_mw" envconfig:"INCLUDE_MW"`
	PLBreak      bool    `yaml:"pl_break" envconfig:"PL_BREAK"`
	BreakP       float64 `yaml:"break_p" envconfig:"BREAK_P" validate:"gt=0"`
	PLBreak2     bool    `yaml:"pl_break2" envconfig:"PL_BREAK2"`
	BreakP2      float64 `yaml:"break_p2" envconfig:"BREAK_P2" validate:"gt=0"`
	FixedZw      bool    `yaml:"fixed_zw" envconfig:"FIXED_ZW"`
	Zw           float64 `yaml:"zw" envconfig:"ZW"`
	SigZw        float64 `yaml:"sig_zw" envconfig:"SIG_ZW" validate:"gte=0"`
	AddedScatter float64 `yaml:"added_scatter" envconfig:"ADDED_SCATTER" validate:"gte=0"`
	MultipleZP   bool    `yaml:"multiple_zp" envconfig:"MULTIPLE_ZP"` // one zp per zp_set label
	FixedZP      bool    `yaml:"fixed_zp" envconfig:"FIXED_ZP"`
	ZP           float64 `yaml:"zp" envconfig:"ZP"` // mas, used with fixed_zp
	SigZP        float64 `yaml:"sig_zp" envconfig:"SIG_ZP" validate:"gte=0"`
}

// TRGB configures the tip-of-the-red-giant-branch rung.
type TRGB struct {
	Include     bool    `yaml:"include" envconfig:"INCLUDE"`
	UseColor    bool    `yaml:"use_color" envconfig:"USE_COLOR"`
	MidVI       float64 `yaml:"mid_vi" envconfig:"MID_VI"`
	DifferentMu bool    `yaml:"different_mu" envconfig:"DIFFERENT_MU"`
}

// SNe configures the supernova rung and the Hubble-flow window.
type SNe struct {
	FitAB bool    `yaml:"fit_ab" envconfig:"FIT_AB"`
	AB    float64 `yaml:"ab" envconfig:"AB"`
	SigAB float64 `yaml:"sig_ab" envconfig:"SIG_AB" validate:"gte=0"`
	ZMin  float64 `yaml:"z_min" envconfig:"Z_MIN" validate:"gte=0"`
	ZMax  float64 `yaml:"z_max" envconfig:"Z_MAX" validate:"gt=0"`
}

// Outliers configures kappa clipping.
type Outliers struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	Kappa   float64 `yaml:"kappa" envconfig:"KAPPA" validate:"gt=0"`
}

// Corrections configures the photometric corrections.
type Corrections struct {
	RLB       bool    `yaml:"rlb" envconfig:"RLB"`
	KCorrCep  bool    `yaml:"kcorr_cep" envconfig:"KCORR_CEP"`
	EBVCep    float64 `yaml:"ebv_cep" envconfig:"EBV_CEP" validate:"gte=0,lte=0.4"`
	KCorrTRGB bool    `yaml:"kcorr_trgb" envconfig:"KCORR_TRGB"`
	EBVTRGB   float64 `yaml:"ebv_trgb" envconfig:"EBV_TRGB" validate:"gte=0,lte=0.05"`
	TeffTRGB  float64 `yaml:"teff_trgb" envconfig:"TEFF_TRGB" validate:"gte=3500,lte=6000"`
	LoggTRGB  float64 `yaml:"logg_trgb" envconfig:"LOGG_TRGB" validate:"gte=0,lte=0.5"`
	FeHTRGB   float64 `yaml:"feh_trgb" envconfig:"FEH_TRGB" validate:"gte=-2,lte=-1.5"`
}

// Physics holds the physical constants of the model.
type Physics struct {
	C  float64 `yaml:"c" envconfig:"C" validate:"gt=0"` // km/s
	Q0 float64 `yaml:"q0" envconfig:"Q0"`
	J0 float64 `yaml:"j0" envconfig:"J0"`
	R  float64 `yaml:"r" envconfig:"R" validate:"gte=0"`
}

// Sweep lists the values scanned by parameter sweeps.
type Sweep struct {
	EBVCep   []float64 `yaml:"ebv_cep" envconfig:"EBV_CEP" validate:"dive,gte=0,lte=0.4"`
	EBVTRGB  []float64 `yaml:"ebv_trgb" envconfig:"EBV_TRGB" validate:"dive,gte=0,lte=0.05"`
	TeffTRGB []float64 `yaml:"teff_trgb" envconfig:"TEFF_TRGB" validate:"dive,gte=3500,lte=6000"`
	BreakP2  []float64 `yaml:"break_p2" envconfig:"BREAK_P2" validate:"dive,gt=0"`
	Workers  int       `yaml:"workers" envconfig:"WORKERS" validate:"gte=1"`
}

// Paths locates inputs and outputs.
type Paths struct {
	DataDir        string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReferenceTable string `yaml:"reference_table" envconfig:"REFERENCE_TABLE"`
	WorkDir        string `yaml:"work_dir" envconfig:"WORK_DIR" validate:"required"`
}

// Logging configures the slog handler.
type Logging struct {
	Level  string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" validate:"oneof=text json"`
}

// Defaults returns the reference configuration.
func Defaults() Config {
	return Config{
		Cepheids: Cepheids{
			Include:      true,
			IncludeMW:    true,
			BreakP:       10,
			BreakP2:      35,
			AddedScatter: 0.0277,
			ZP:           -0.014,
			SigZP:        0.005,
		},
		TRGB: TRGB{
			UseColor:    true,
			MidVI:       1.32,
			DifferentMu: true,
		},
		SNe: SNe{
			FitAB: true,
			AB:    0.715840,
			SigAB: 0.001631,
			ZMin:  0.023,
			ZMax:  0.150,
		},
		Outliers: Outliers{Enabled: true, Kappa: 2.7},
		Corrections: Corrections{
			RLB:      true,
			TeffTRGB: 4200,
			LoggTRGB: 0.5,
			FeHTRGB:  -1.75,
		},
		Physics: Physics{C: 299792.458, Q0: -0.55, J0: 1, R: 0.386},
		Sweep: Sweep{
			EBVCep:   []float64{0, 0.005, 0.01, 0.015, 0.02, 0.025, 0.03, 0.035, 0.04, 0.045, 0.05},
			EBVTRGB:  []float64{0, 0.005, 0.01, 0.015, 0.02, 0.025, 0.03, 0.035, 0.04, 0.045, 0.05},
			TeffTRGB: []float64{3750, 4000, 4250, 4500, 4750, 5000, 5250},
			BreakP2:  []float64{20, 25, 30, 35, 40, 45, 50, 55, 60, 65, 70},
			Workers:  4,
		},
		Paths:   Paths{DataDir: "data", ReferenceTable: "data/kcorr_reference.csv", WorkDir: "."},
		Logging: Logging{Level: "info", Format: "text"},
	}
}
