package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/vectorvault/internal/jobs"
)

// TasksHandler triggers background jobs.
type TasksHandler struct {
	enqueuer jobs.Enqueuer
}

// NewTasksHandler constructs handler.
func NewTasksHandler(enqueuer jobs.Enqueuer) *TasksHandler {
	return &TasksHandler{enqueuer: enqueuer}
}

// CreateTestTask handles POST /tasks/test by enqueueing the hello job.
// Execution is fire-and-forget; the response only confirms the enqueue.
func (h *TasksHandler) CreateTestTask(c *fiber.Ctx) error {
	jobID, err := h.enqueuer.Enqueue(c.UserContext(), jobs.JobHelloWorld, "Hello from the API!")
	if err != nil {
		return err
	}

	return c.Status(http.StatusAccepted).JSON(fiber.Map{
		"job_id":  jobID,
		"message": "Task has been started in the background!",
	})
}
