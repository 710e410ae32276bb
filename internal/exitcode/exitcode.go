package exitcode

const (
	Success       = 0
	UsageError    = 1
	InputError    = 2
	PricingError  = 3
	PipelineError = 4
	ServerError   = 5
)
