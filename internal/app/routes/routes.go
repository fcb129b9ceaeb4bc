package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/courseapi/internal/app/controllers"
	"github.com/yigit/courseapi/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	courseController *controllers.CourseController,
	studentController *controllers.StudentController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", healthController.Health)

	// --- Public Auth routes ---
	auth := router.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := router.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.POST("/auth/logout", authController.Logout)

		courses := authenticated.Group("/courses")
		{
			courses.GET("", courseController.GetAllCourses)
			courses.POST("", courseController.CreateCourse)
			courses.GET("/:id", courseController.GetCourseByID)
			courses.PUT("/:id", courseController.UpdateCourse)
			courses.DELETE("/:id", courseController.DeleteCourse)
		}

		students := authenticated.Group("/students")
		{
			students.GET("", studentController.GetAllStudents)
			students.POST("", studentController.CreateStudent)
			students.GET("/:id", studentController.GetStudentByID)
			students.PUT("/:id", studentController.UpdateStudent)
			students.DELETE("/:id", studentController.DeleteStudent)
		}
	}
}
