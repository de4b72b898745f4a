package dto

type CreateTaskRequest struct {
	Title     string  `json:"title"`
	UserEmail string  `json:"user_email"`
	UserName  *string `json:"user_name"`
}

type UpdateTaskRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

type DeleteTaskResponse struct {
	Success bool `json:"success"`
}

// EnhanceWebhookPayload is posted to the enhancement automation after a task
// is created.
type EnhanceWebhookPayload struct {
	TaskID    string `json:"taskId"`
	Title     string `json:"title"`
	UserEmail string `json:"user_email"`
}
