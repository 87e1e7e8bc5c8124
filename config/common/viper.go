package common

import (
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/viper"
)

type Config struct {
	Viper *viper.Viper
}

func NewViper() *Config {
	config := viper.New()
	config.SetConfigFile(".env")
	config.AddConfigPath("../")
	config.AutomaticEnv()

	log.Trace("Checking file .env ....")
	if err := config.ReadInConfig(); err != nil {
		panic("failed read config")
	}
	return &Config{Viper: config}
}

func (c *Config) GetAppConfig() (appName, port string) {
	appName = c.Viper.GetString("APP_NAME")
	port = c.Viper.GetString("APP_PORT")
	if port == "" {
		port = "7720"
	}
	return appName, port
}

func (c *Config) GetMongoConfig() (uri, database string) {
	uri = c.Viper.GetString("MONGO_URI")
	database = c.Viper.GetString("MONGO_DB")
	if database == "" {
		database = "chat_service"
	}
	return uri, database
}

// GetEjabberdConfig returns the admin API endpoint and the XMPP domains the
// room directory operates on.
func (c *Config) GetEjabberdConfig() (apiURL, adminUser, adminPassword, vhost, mucService string) {
	apiURL = c.Viper.GetString("EJABBERD_API_URL")
	adminUser = c.Viper.GetString("EJABBERD_ADMIN_USER")
	adminPassword = c.Viper.GetString("EJABBERD_ADMIN_PASSWORD")
	vhost = c.Viper.GetString("EJABBERD_VHOST")
	mucService = c.Viper.GetString("EJABBERD_MUC_SERVICE")
	if mucService == "" {
		mucService = "conference." + vhost
	}
	return apiURL, adminUser, adminPassword, vhost, mucService
}

func (c *Config) GetEjabberdTimeout() time.Duration {
	seconds := c.Viper.GetInt("EJABBERD_TIMEOUT_SECONDS")
	if seconds <= 0 {
		seconds = 10
	}
	return time.Duration(seconds) * time.Second
}

func (c *Config) GetEjabberdInsecureSkipVerify() bool {
	return c.Viper.GetBool("EJABBERD_INSECURE_SKIP_VERIFY")
}

func (c *Config) GetJwtConfig() []byte {
	jwtSecret := c.Viper.GetString("JWT_SECRET")
	return []byte(jwtSecret)
}
