package utils

import (
	"github.com/gofiber/fiber/v2"
)

// Every JSON response uses the same envelope:
// { "success": bool, "data": ..., "error": { "message": ... } }
// Paginated endpoints add page/limit/total/pages alongside data.

type APIError struct {
	Message string `json:"message"`
}

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type PagedResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	Total   int64       `json:"total"`
	Pages   int64       `json:"pages"`
}

func Success(c *fiber.Ctx, data interface{}) error {
	return c.JSON(Response{Success: true, Data: data})
}

func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: data})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Response{Success: false, Error: &APIError{Message: message}})
}

// Internal reports a 500 with a generic message; the detail stays server-side.
func Internal(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, "Something went wrong")
}

func Paged(c *fiber.Ctx, data interface{}, page, limit int, total int64) error {
	return c.JSON(PagedResponse{
		Success: true,
		Data:    data,
		Page:    page,
		Limit:   limit,
		Total:   total,
		Pages:   (total + int64(limit) - 1) / int64(limit), // Ceiling division
	})
}

// Pagination pulls page/limit query parameters with the API defaults.
func Pagination(c *fiber.Ctx) (page, limit, offset int) {
	page = 1
	limit = 10
	if parsed := c.QueryInt("page"); parsed > 0 {
		page = parsed
	}
	if parsed := c.QueryInt("limit"); parsed > 0 && parsed <= 100 {
		limit = parsed
	}
	return page, limit, (page - 1) * limit
}
