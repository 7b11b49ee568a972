package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	EnvFile    string
	Mode       string
	TopicARN   string
	Threshold  *float64
	PastMonths *int
	Days       *int
	Profile    string
	Region     string
	DryRun     bool
	ReportName string
	ReportType []string
	Dir        string
}
