package httpapi

// LoadStatus tracks the most recent dataset load attempt.
type LoadStatus struct {
	Source     string `json:"source"` // upload | file | none
	LastLoadAt string `json:"last_load_at"`
	LastOkAt   string `json:"last_ok_at"`
	LastError  string `json:"last_error"`
	Records    int    `json:"records"`
}
