package api

import (
	"os"

	"log/slog"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/n4u77i/reminderApp/internal/controller"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

var (
	routerHandler = slog.NewTextHandler(os.Stdout, nil).WithAttrs([]slog.Attr{slog.String("name", "api")})
	routerLogger  = slog.New(routerHandler)
)

const (
	ScopeName = "github.com/n4u77i/reminderApp/internal/api"
)

func InitRoutes(ctrl *controller.ReminderController) *gin.Engine {
	routerLogger.Info("Gin cold start")
	r := gin.Default()

	corsConfig := cors.DefaultConfig()

	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"*"}
	corsConfig.AddAllowMethods("OPTIONS", "GET", "POST")

	r.Use(otelgin.Middleware(ScopeName))

	r.Use(cors.New(corsConfig))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// REMINDERS ROUTER
	reminders := r.Group("/reminders")
	{
		reminders.POST("", ctrl.CreateReminder)
		reminders.GET("/:userId", ctrl.GetReminders)
	}

	return r
}
