package router

import (
	"github.com/hossain-shifat/TaskNest-sub000/internal/middleware"
	"github.com/hossain-shifat/TaskNest-sub000/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.GET("/email-verification/:code", handler.VerifyEmail)
	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)

	users.POST("/logout", handler.Logout, authRequired)
	users.GET("/:email", handler.GetUserByEmail, authRequired)
	users.PATCH("/:id/profile", handler.UpdateProfile, authRequired, middleware.SelfOrAdmin())
	users.PATCH("/:id/role", handler.UpdateRole, authRequired, adminOnly)
	users.GET("", handler.GetAllUsers, authRequired, adminOnly)
	users.DELETE("/:id", handler.DeleteUser, authRequired, adminOnly)
}

func SetupTaskRoutes(api *echo.Group, handler *rest.TaskHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	tasks := api.Group("/tasks", authRequired)

	tasks.POST("", handler.CreateTask, middleware.BuyerOnly())
	tasks.GET("", handler.GetTasks)
	tasks.GET("/available", handler.GetAvailableTasks)
	tasks.GET("/:id", handler.GetTaskByID)
	tasks.PATCH("/:id", handler.UpdateTask)
	tasks.DELETE("/:id", handler.DeleteTask)
	tasks.DELETE("/admin/:id", handler.DeleteTask, adminOnly)
}

func SetupSubmissionRoutes(api *echo.Group, handler *rest.SubmissionHandler, authRequired echo.MiddlewareFunc) {
	submissions := api.Group("/submissions", authRequired)

	submissions.POST("", handler.CreateSubmission, middleware.WorkerOnly())
	submissions.GET("/paginated", handler.GetWorkerSubmissions)
	submissions.GET("", handler.GetBuyerSubmissions)
	submissions.PATCH("/:id/approve", handler.ApproveSubmission)
	submissions.PATCH("/:id/reject", handler.RejectSubmission)
}

func SetupWithdrawalRoutes(api *echo.Group, handler *rest.WithdrawalHandler, authRequired echo.MiddlewareFunc, adminOnly echo.MiddlewareFunc) {
	withdrawals := api.Group("/withdrawals", authRequired)

	withdrawals.POST("", handler.CreateWithdrawal, middleware.WorkerOnly())
	withdrawals.GET("", handler.GetWorkerWithdrawals)
	withdrawals.GET("/pending", handler.GetPendingWithdrawals, adminOnly)
	withdrawals.PATCH("/:id/approve", handler.ApproveWithdrawal, adminOnly)
	withdrawals.PATCH("/:id/reject", handler.RejectWithdrawal, adminOnly)
}

func SetupPaymentRoutes(api *echo.Group, handler *rest.PaymentHandler, authRequired echo.MiddlewareFunc) {
	api.POST("/payment-checkout-session", handler.CreateCheckoutSession, authRequired, middleware.BuyerOnly())
	api.PATCH("/payment-success", handler.FinalizeCheckout, authRequired)
	api.GET("/payments", handler.GetPayments, authRequired)
	api.GET("/coin-packages", handler.GetCoinPackages)
}

func SetupNotificationRoutes(api *echo.Group, handler *rest.NotificationHandler, authRequired echo.MiddlewareFunc) {
	notifications := api.Group("/notifications", authRequired)

	notifications.GET("", handler.GetNotifications)
	notifications.DELETE("/:id", handler.DeleteNotification)
}
