package api

import (
	"github.com/gofiber/fiber/v2"
)

// Envelope is the uniform response shape for every operation. Success
// responses populate data and msg; failures populate err and leave data
// as an empty object.
type Envelope struct {
	Status int    `json:"status"`
	Data   any    `json:"data"`
	Msg    string `json:"msg,omitempty"`
	Err    string `json:"err,omitempty"`
}

// success writes a success envelope.
func success(c *fiber.Ctx, status int, data any, msg string) error {
	return c.Status(status).JSON(Envelope{
		Status: status,
		Data:   data,
		Msg:    msg,
	})
}

// failure writes a failure envelope with an empty data object.
func failure(c *fiber.Ctx, status int, errMsg string) error {
	return c.Status(status).JSON(Envelope{
		Status: status,
		Data:   struct{}{},
		Err:    errMsg,
	})
}

// signupBody is the JSON body accepted by the signup endpoint.
type signupBody struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginBody is the JSON body accepted by the login endpoint.
type loginBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// createTaskBody is the JSON body accepted by the create-task endpoint.
type createTaskBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// updateTaskBody is the JSON body accepted by the update-task endpoint.
// Pointer fields distinguish "absent" from "empty".
type updateTaskBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	State       *string `json:"state"`
}
