package service

import (
	"testing"

	"resourcegen/config"

	"github.com/stretchr/testify/assert"
)

func TestHealthService(t *testing.T) {
	conf := &config.Configuration{}
	conf.App.Version = "v1.2.3"
	s := NewHealthService(conf)

	assert.True(t, s.IsLive())
	assert.False(t, s.IsReady())
	assert.Equal(t, "starting", s.Status().Status)

	s.SetReady(true)
	status := s.Status()
	assert.Equal(t, "ok", status.Status)
	assert.True(t, status.Ready)
	assert.Equal(t, "v1.2.3", status.Version)
}
