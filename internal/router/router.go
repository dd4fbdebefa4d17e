package routes

import (
	"net/http"

	_ "github.com/oggyb/mollie-sms/internal/docs" // swagger docs
	"github.com/oggyb/mollie-sms/internal/response"
	swaggerHandler "github.com/swaggo/http-swagger"
)

type AppDeps struct {
	Home    HomeHandler
	Message MessageHandler
}

type HomeHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type MessageHandler interface {
	CreateMessage(w http.ResponseWriter, r *http.Request)
	CancelMessage(w http.ResponseWriter, r *http.Request)
	GetSentMessages(w http.ResponseWriter, r *http.Request)
	StartStopScheduler(w http.ResponseWriter, r *http.Request)
}

func Register(mux *http.ServeMux, d AppDeps) {
	mux.HandleFunc("GET /{$}", d.Home.Index)
	mux.HandleFunc("GET /health", d.Home.Health)

	mux.HandleFunc("POST /messages", d.Message.CreateMessage)
	mux.HandleFunc("GET /messages/sent", d.Message.GetSentMessages)
	mux.HandleFunc("POST /messages/{reference}/cancel", d.Message.CancelMessage)
	mux.HandleFunc("POST /scheduler", d.Message.StartStopScheduler)

	//Swagger
	mux.HandleFunc("GET /swagger/", swaggerHandler.WrapHandler)

	// Fallback handler for undefined routes (404)
	mux.Handle("/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.RespondError(w, http.StatusNotFound, "route not found")
	}))
}
