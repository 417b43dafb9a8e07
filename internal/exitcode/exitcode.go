package exitcode

const (
	Success        = 0
	UsageError     = 1
	InputError     = 2
	DBConnError    = 3
	TransformError = 4
	WriteError     = 5
	StoreError     = 6
	PublishError   = 7
)
