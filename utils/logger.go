package utils

import (
	"log"

	"github.com/rollbar/rollbar-go"
)

var rollbarEnabled bool

// InitErrorReporting turns on rollbar reporting for LogError when a token is
// configured. Without a token errors only go to the std logger.
func InitErrorReporting(token, env string) {
	if token == "" {
		rollbar.SetEnabled(false)
		return
	}
	rollbar.SetToken(token)
	rollbar.SetEnvironment(env)
	rollbar.SetEnabled(true)
	rollbarEnabled = true
	LogStartup("rollbar error reporting enabled (env=%s)", env)
}

// CloseErrorReporting flushes queued rollbar items.
func CloseErrorReporting() {
	if rollbarEnabled {
		rollbar.Close()
	}
}

func LogInfo(msg string, args ...interface{}) {
	log.Printf("[INFO] "+msg, args...)
}

func LogWarn(msg string, args ...interface{}) {
	log.Printf("[WARN] "+msg, args...)
}

// LogError logs and, when enabled, reports the first error argument.
func LogError(msg string, args ...interface{}) {
	log.Printf("[ERROR] "+msg, args...)
	if !rollbarEnabled {
		return
	}
	for _, a := range args {
		if err, ok := a.(error); ok {
			rollbar.Error(err, map[string]interface{}{"message": msg})
			return
		}
	}
	rollbar.Error(msg)
}

func LogDB(msg string, args ...interface{}) {
	log.Printf("[DB] "+msg, args...)
}

func LogPurchase(msg string, args ...interface{}) {
	log.Printf("[PURCHASE] "+msg, args...)
}

func LogQuiz(msg string, args ...interface{}) {
	log.Printf("[QUIZ] "+msg, args...)
}

func LogScheduler(msg string, args ...interface{}) {
	log.Printf("[SALES-SCHEDULER] "+msg, args...)
}

func LogStartup(msg string, args ...interface{}) {
	log.Printf("[STARTUP] "+msg, args...)
}

func LogShutdown(msg string, args ...interface{}) {
	log.Printf("[SHUTDOWN] "+msg, args...)
}
