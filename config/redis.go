package config

import (
	"net"
	"strconv"
)

// Redis STORE.DRIVER=redis 時的使用量後端
type Redis struct {
	Host     string `mapstructure:"HOST" json:"host" yaml:"host"`
	Port     int    `mapstructure:"PORT" json:"port" yaml:"port"`
	Password string `mapstructure:"PASSWORD" json:"-" yaml:"password"`
	DB       int    `mapstructure:"DB" json:"db" yaml:"db"`
}

func (r Redis) Addr() string {
	port := r.Port
	if port == 0 {
		port = 6379
	}
	return net.JoinHostPort(r.Host, strconv.Itoa(port))
}
