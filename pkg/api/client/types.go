package client

// createJobRequest is the payload for job submission.
type createJobRequest struct {
	Circuit string `json:"circuit"`
}

// cancelJobRequest is the payload for job cancellation.
type cancelJobRequest struct {
	Status string `json:"status"`
}

// jobResponse is the platform's job representation.
type jobResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// errorBody is the platform's error representation.
type errorBody struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Detail     string `json:"detail"`
}
