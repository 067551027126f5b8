package model

// IndexResponse is returned by GET /.
type IndexResponse struct {
	Message       string `json:"message"`
	Version       string `json:"version"`
	Documentation string `json:"documentation"`
}

// EmptyRequest is used by handlers that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}
