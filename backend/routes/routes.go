package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"eduapp/backend/config"
	"eduapp/backend/controllers"
	"eduapp/backend/middleware"
	"eduapp/backend/models"
	"eduapp/backend/services/email"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, mailer email.Mailer) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg, mailer)
	app.Post("/api/auth/register", authController.Register)
	app.Get("/api/auth/verify/:token", authController.VerifyEmail)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/forgot-password", authController.RequestPasswordReset)
	app.Post("/api/auth/reset-password/:token", authController.ResetPassword)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	staffOnly := middleware.RequireRoles(models.RoleTeacher, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	studentsOnly := middleware.RequireRoles(models.RoleStudent)
	parentsOnly := middleware.RequireRoles(models.RoleParent)

	app.Get("/api/auth/me", authMiddleware, authController.GetMe)

	// User routes
	usersController := controllers.NewUsersController(db, cfg)
	users := app.Group("/api/users", authMiddleware)
	users.Get("/", adminOnly, usersController.GetUsers)
	users.Get("/:id", usersController.GetUser)
	users.Put("/:id", usersController.UpdateUser)
	users.Delete("/:id", adminOnly, usersController.DeleteUser)

	// Subject routes
	subjectsController := controllers.NewSubjectsController(db, cfg)
	subjects := app.Group("/api/subjects", authMiddleware)
	subjects.Get("/", subjectsController.GetSubjects)
	subjects.Post("/", adminOnly, subjectsController.CreateSubject)
	subjects.Get("/my", studentsOnly, subjectsController.GetMySubjects)
	subjects.Get("/available", studentsOnly, subjectsController.GetAvailableSubjects)
	subjects.Post("/enroll", studentsOnly, subjectsController.EnrollSubject)
	subjects.Get("/:id", studentsOnly, subjectsController.GetSubjectDetails)
	subjects.Put("/:id", adminOnly, subjectsController.UpdateSubject)
	subjects.Delete("/:id", adminOnly, subjectsController.DeleteSubject)
	subjects.Delete("/:id/enroll", studentsOnly, subjectsController.UnenrollSubject)

	// Group routes
	groupsController := controllers.NewGroupsController(db, cfg)
	groups := app.Group("/api/groups", authMiddleware)
	groups.Get("/", groupsController.GetAllGroups)
	groups.Post("/", staffOnly, groupsController.CreateGroup)
	groups.Get("/subject/:subjectId", groupsController.GetGroupsBySubject)
	groups.Put("/:id", staffOnly, groupsController.UpdateGroup)
	groups.Delete("/:id", staffOnly, groupsController.DeleteGroup)

	// Topic routes
	topicsController := controllers.NewTopicsController(db, cfg)
	topics := app.Group("/api/topics", authMiddleware)
	topics.Get("/", topicsController.GetAllTopics)
	topics.Post("/", staffOnly, topicsController.CreateTopic)
	topics.Get("/subject/:subjectId", topicsController.GetTopicsBySubject)
	topics.Get("/:id", topicsController.GetTopic)
	topics.Put("/:id", staffOnly, topicsController.UpdateTopic)
	topics.Delete("/:id", staffOnly, topicsController.DeleteTopic)

	// Resource routes
	resourcesController := controllers.NewResourcesController(db, cfg)
	resources := app.Group("/api/resources", authMiddleware)
	resources.Post("/", staffOnly, resourcesController.CreateResource)
	resources.Get("/topic/:topicId", resourcesController.GetResourcesByTopic)
	resources.Delete("/:id", staffOnly, resourcesController.DeleteResource)

	// Assessment routes
	assessmentsController := controllers.NewAssessmentsController(db, cfg)
	submissionsController := controllers.NewSubmissionsController(db, cfg)
	assessments := app.Group("/api/assessments", authMiddleware)
	assessments.Get("/", assessmentsController.GetAllAssessments)
	assessments.Post("/", staffOnly, assessmentsController.CreateAssessment)
	assessments.Get("/:id", assessmentsController.GetAssessment)
	assessments.Put("/:id", staffOnly, assessmentsController.UpdateAssessment)
	assessments.Delete("/:id", staffOnly, assessmentsController.DeleteAssessment)
	assessments.Put("/:id/approve", adminOnly, assessmentsController.SetApproval)
	assessments.Post("/:id/questions", staffOnly, assessmentsController.AddQuestion)
	assessments.Delete("/questions/:id", staffOnly, assessmentsController.DeleteQuestion)
	assessments.Post("/:assessmentId/questions/:questionId/options", staffOnly, assessmentsController.AddOption)
	assessments.Delete("/options/:id", staffOnly, assessmentsController.DeleteOption)

	// Submission routes
	assessments.Post("/:id/submit", studentsOnly, submissionsController.SubmitAssessment)
	assessments.Get("/:id/result",
		middleware.RequireRoles(models.RoleStudent, models.RoleTeacher, models.RoleAdmin),
		submissionsController.GetSubmissionResult)
	assessments.Get("/:id/correct-answers", staffOnly, submissionsController.GetCorrectAnswers)
	assessments.Get("/:id/submissions", staffOnly, submissionsController.GetAllSubmissions)
	app.Put("/api/submissions/:id/grade", authMiddleware, staffOnly, submissionsController.GradeSubmission)

	// Suggested question routes
	questionsController := controllers.NewQuestionsController(db, cfg)
	questions := app.Group("/api/questions", authMiddleware)
	questions.Post("/suggest", questionsController.SuggestQuestion)
	questions.Get("/suggested", staffOnly, questionsController.GetSuggestedQuestions)
	questions.Post("/suggested/:id/approve", staffOnly, questionsController.ApproveSuggestedQuestion)
	questions.Delete("/suggested/:id", staffOnly, questionsController.DeleteSuggestedQuestion)

	// Forum routes
	forumController := controllers.NewForumController(db, cfg)
	forum := app.Group("/api/forum", authMiddleware)
	forum.Get("/questions", forumController.GetQuestions)
	forum.Post("/questions", forumController.CreateQuestion)
	forum.Get("/questions/:id", forumController.GetQuestion)
	forum.Post("/questions/:id/answers", forumController.CreateAnswer)
	forum.Post("/answers/:answerId/comments", forumController.CreateComment)
	forum.Put("/answers/:id/accept", forumController.AcceptAnswer)
	forum.Put("/answers/:id/vote", forumController.VoteAnswer)
	forum.Get("/unread/:subjectId", forumController.GetUnreadCount)
	forum.Post("/questions/:id/read", forumController.MarkQuestionRead)

	// Parent routes
	parentsController := controllers.NewParentsController(db, cfg)
	parents := app.Group("/api/parents", authMiddleware, parentsOnly)
	parents.Post("/children", parentsController.LinkChild)
	parents.Delete("/children/:studentId", parentsController.UnlinkChild)
	parents.Get("/children", parentsController.GetChildren)
	parents.Get("/students/search", parentsController.SearchStudents)

	// Teacher dashboard routes
	teacherController := controllers.NewTeacherController(db, cfg)
	teacher := app.Group("/api/teacher", authMiddleware, staffOnly)
	teacher.Get("/stats", teacherController.GetStats)
	teacher.Get("/assessments", teacherController.GetAssessments)

	// Student dashboard
	dashboardController := controllers.NewDashboardController(db, cfg)
	app.Get("/api/student/dashboard", authMiddleware, studentsOnly, dashboardController.GetStudentDashboard)
}
