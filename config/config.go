package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr    string `default:"" env:"APP_HOST"`
		Port          int    `default:"8080"  env:"APP_PORT"`
		PublicBaseURL string `default:"http://localhost:5173" env:"APP_PUBLIC_BASE_URL"` // адрес фронта для ссылки на анкету
		SwaggerFile   string `default:"./docs/swagger.json" env:"APP_SWAGGER_FILE"`
		ErrNotifyURL  string `default:"" env:"APP_ERR_NOTIFY_URL"`   // webhook для уведомлений об ошибках 5xx
		PublicBodyKb  int64  `default:"256" env:"APP_PUBLIC_BODY_KB"` // лимит тела запроса публичного api
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hr-quiz" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
		SeedDemo       *bool  `default:"false" env:"DB_SEED_DEMO"`
	}
	Auth struct {
		JWTSecret      string `default:"secret" env:"JWT_SECRET"`
		JWTExpireInSec int    `default:"86400" env:"JWT_EXPIRE_IN_SEC"`
		HRName         string `default:"HR Manager" env:"HR_NAME"`
		HREmail        string `default:"hr@example.com" env:"HR_EMAIL"`
		HRPassword     string `default:"password123" env:"HR_PASSWORD"`
	}
	AI struct {
		Provider         string  `default:"yandexgpt" env:"AI_PROVIDER"` // yandexgpt | gemini
		Temperature      float64 `default:"0.3" env:"AI_TEMPERATURE"`
		MaxTokens        int     `default:"1024" env:"AI_MAX_TOKENS"`
		TimeoutSec       int     `default:"60" env:"AI_TIMEOUT_SEC"`
		RegenLockWaitSec int     `default:"5" env:"AI_REGEN_LOCK_WAIT_SEC"`
		PendingStaleMin  int     `default:"10" env:"AI_PENDING_STALE_MIN"` // через сколько минут повторять анализ зависших кандидатов

		YandexGPT struct {
			IAMToken  string `default:"" env:"YAGPT_IAM_TOKEN"`
			CatalogID string `default:"" env:"YAGPT_CATALOG_ID"`
			Model     string `default:"" env:"YAGPT_MODEL"`
		}
		Gemini struct {
			APIKey string `default:"" env:"GEMINI_API_KEY"`
			Model  string `default:"gemini-2.5-flash" env:"GEMINI_MODEL"`
		}
	}
	Smtp struct {
		User       string `default:"" env:"SMTP_USER"`
		Password   string `default:"" env:"SMTP_PASSWORD"`
		Host       string `default:"" env:"SMTP_HOST"`
		Port       string `default:"" env:"SMTP_PORT"`
		TLSEnabled *bool  `default:"true" env:"SMTP_TLS_ENABLED"`
		HRNotify   string `default:"" env:"SMTP_HR_NOTIFY"` // адрес HR для уведомлений о новых кандидатах
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
