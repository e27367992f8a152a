package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Listen_Addr string
	Db_Conn_Str string

	Rabbit_Enabled bool
	Rabbit_Url     string

	Cognito_Region        string
	Cognito_User_Pool_Id  string
	Cognito_App_Client_Id string

	S3_Bucket string
	S3_Region string

	BugSink_Enabled     bool
	BugSink_DSN         string
	BugSink_Environment string
	BugSink_Release     string
}

var config Config

func C() *Config {
	return &config
}

func Init(file string) {
	log.Printf("[CONFIG] Initializing configuration from file: %s", file)

	viper.SetConfigName(file)
	viper.AddConfigPath(".")

	viper.SetDefault("Listen_Addr", ":8080")

	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Error reading config file: %s", err))
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		panic(fmt.Errorf("Error unmarshalling config: %s", err))
	}

	log.Printf("[CONFIG] Configuration loaded successfully")
	log.Printf("[CONFIG] Database connection string configured")
	log.Printf("[CONFIG] Listen address: %s", config.Listen_Addr)
}
