package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quizhub/quiz-web/internal/client"
	"github.com/quizhub/quiz-web/internal/events"
	"github.com/quizhub/quiz-web/internal/guard"
	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/session"
	"github.com/quizhub/quiz-web/internal/utils"
	"github.com/quizhub/quiz-web/internal/validator"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	dashboardHandler *DashboardHandler
	quizHandler      *QuizHandler
	questionHandler  *QuestionHandler
	wizardHandler    *WizardHandler
	store            *session.Store
}

func NewHandlerManager(
	gateway client.GatewayClient,
	store *session.Store,
	validator *validator.Validator,
	publisher events.EventPublisher,
	sessionTTL time.Duration,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(gateway, store, validator, publisher, sessionTTL, logger),
		dashboardHandler: NewDashboardHandler(gateway, logger),
		quizHandler:      NewQuizHandler(gateway, store, validator, publisher, logger),
		questionHandler:  NewQuestionHandler(gateway, validator, publisher, logger),
		wizardHandler:    NewWizardHandler(gateway, store, publisher, logger),
		store:            store,
	}
}

// Routes is the declarative access table enforced by the guard
// middleware. Routes absent from the table are public; an empty role
// means any signed-in user.
func Routes() guard.RouteTable {
	return guard.RouteTable{
		"/":                    {},
		"/student":             {Role: models.RoleStudent},
		"/student/results/:id": {Role: models.RoleStudent},
		"/quizzes/:id/take":    {Role: models.RoleStudent},
		"/quizzes/:id/answer":  {Role: models.RoleStudent},
		"/quizzes/:id/submit":  {Role: models.RoleStudent},

		"/teacher":                            {Role: models.RoleTeacher},
		"/teacher/quizzes":                    {Role: models.RoleTeacher},
		"/teacher/quizzes/new":                {Role: models.RoleTeacher},
		"/teacher/quizzes/:id/analytics":      {Role: models.RoleTeacher},
		"/teacher/quizzes/:id/analytics.xlsx": {Role: models.RoleTeacher},
		"/teacher/wizard":                     {Role: models.RoleTeacher},
		"/teacher/wizard/category":            {Role: models.RoleTeacher},
		"/teacher/wizard/toggle":              {Role: models.RoleTeacher},
		"/teacher/wizard/next":                {Role: models.RoleTeacher},
		"/teacher/wizard/back":                {Role: models.RoleTeacher},
		"/teacher/wizard/cancel":              {Role: models.RoleTeacher},
		"/teacher/wizard/create":              {Role: models.RoleTeacher},

		"/questions":      {Role: models.RoleTeacher},
		"/questions/new":  {Role: models.RoleTeacher},
		"/questions/bulk": {Role: models.RoleTeacher},
	}
}

// SetupRoutes registers all routes behind the session guard.
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.Use(guard.Middleware(hm.store, Routes()))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "quiz-web",
		})
	})

	router.GET("/login", hm.authHandler.ShowLogin)
	router.POST("/login", hm.authHandler.Login)
	router.GET("/register", hm.authHandler.ShowRegister)
	router.POST("/register", hm.authHandler.Register)
	router.POST("/logout", hm.authHandler.Logout)

	router.GET("/", hm.dashboardHandler.Home)

	student := router.Group("/student")
	{
		student.GET("", hm.dashboardHandler.StudentDashboard)
		student.GET("/results/:id", hm.dashboardHandler.StudentResult)
	}

	quizzes := router.Group("/quizzes")
	{
		quizzes.GET("/:id/take", hm.quizHandler.TakeQuiz)
		quizzes.POST("/:id/answer", hm.quizHandler.Answer)
		quizzes.POST("/:id/submit", hm.quizHandler.Submit)
	}

	teacher := router.Group("/teacher")
	{
		teacher.GET("", hm.dashboardHandler.TeacherDashboard)
		teacher.GET("/quizzes/new", hm.quizHandler.CreateForm)
		teacher.POST("/quizzes", hm.quizHandler.Create)
		teacher.GET("/quizzes/:id/analytics", hm.quizHandler.Analytics)
		teacher.GET("/quizzes/:id/analytics.xlsx", hm.quizHandler.AnalyticsExport)

		wizard := teacher.Group("/wizard")
		{
			wizard.GET("", hm.wizardHandler.Show)
			wizard.POST("/category", hm.wizardHandler.ChooseCategory)
			wizard.POST("/toggle", hm.wizardHandler.Toggle)
			wizard.POST("/next", hm.wizardHandler.Next)
			wizard.POST("/back", hm.wizardHandler.Back)
			wizard.POST("/cancel", hm.wizardHandler.Cancel)
			wizard.POST("/create", hm.wizardHandler.Create)
		}
	}

	questions := router.Group("/questions")
	{
		questions.GET("", hm.questionHandler.List)
		questions.GET("/new", hm.questionHandler.NewForm)
		questions.POST("", hm.questionHandler.Add)
		questions.GET("/bulk", hm.questionHandler.BulkForm)
		questions.POST("/bulk", hm.questionHandler.BulkAdd)
	}
}
