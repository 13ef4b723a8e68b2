package cmd

// Config carries process-level settings loaded from the environment.
//
// The orchestration tunables map one to one onto the domain service
// constructors: the SLA cutoff and express cut feed the calculator, the
// at-risk fraction feeds the tracker, the hop budget feeds the allocation
// engine and the partner weights feed the selector.
type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	SlaCutoffHour     int
	SlaExpressCutDays int
	SlaAtRiskFraction float64

	AllocMaxHops       int
	AllocEnableHopping bool

	PartnerRateWeight float64
	PartnerTatWeight  float64
}
