package serverutils

import "github.com/gofiber/fiber/v2"

type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func ErrorResponse(code int, message string) ErrorBody {
	return ErrorBody{Code: code, Message: message}
}

type SuccessBody[T any] struct {
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) SuccessBody[T] {
	return SuccessBody[T]{Message: message, Data: data}
}

// ErrorHandlerMiddleware converts panics and unhandled errors into a fixed
// 500 envelope so transport clients never see a raw stack.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				_ = ctx.Status(fiber.StatusInternalServerError).
					JSON(ErrorResponse(500, "internal server error"))
			}
		}()
		if err := ctx.Next(); err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return ctx.Status(fe.Code).JSON(ErrorResponse(fe.Code, fe.Message))
			}
			return ctx.Status(fiber.StatusInternalServerError).
				JSON(ErrorResponse(500, "internal server error"))
		}
		return nil
	}
}
