package camera

import (
	"fmt"
	"net/url"
	"strings"

	"camera-relay/internal/config"
)

// SyntheticScheme помечает камеру, которая отдает тестовый паттерн
// вместо реального RTSP-потока.
const SyntheticScheme = "synthetic:"

// Camera описывает одну сетевую камеру из реестра
type Camera struct {
	Name     string
	Address  string
	Port     int
	Channel  int
	Username string
	Password string
}

// StreamURL собирает RTSP-адрес потока камеры.
// Креды экранируются по правилам userinfo (пробел - %20, не +).
func (c Camera) StreamURL() string {
	u := url.URL{
		Scheme: "rtsp",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   fmt.Sprintf("%s:%d", c.Address, c.Port),
		// Hikvision-style путь: /Streaming/Channels/<channel>
		Path: fmt.Sprintf("/Streaming/Channels/%d", c.Channel),
	}
	return u.String()
}

// IsSynthetic сообщает, что камера использует синтетический источник
func (c Camera) IsSynthetic() bool {
	return strings.HasPrefix(c.Address, SyntheticScheme)
}

// Registry - реестр камер, read-only после загрузки
type Registry struct {
	cameras []Camera
	byName  map[string]Camera
}

// NewRegistry создает реестр из конфигурации
func NewRegistry(configs []config.CameraConfig) (*Registry, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("camera registry: no cameras configured")
	}

	reg := &Registry{
		cameras: make([]Camera, 0, len(configs)),
		byName:  make(map[string]Camera, len(configs)),
	}

	for _, cc := range configs {
		cam := Camera{
			Name:     cc.Name,
			Address:  cc.Address,
			Port:     cc.Port,
			Channel:  cc.Channel,
			Username: cc.Username,
			Password: cc.Password,
		}
		if _, exists := reg.byName[cam.Name]; exists {
			return nil, fmt.Errorf("camera registry: duplicate name %q", cam.Name)
		}
		reg.cameras = append(reg.cameras, cam)
		reg.byName[cam.Name] = cam
	}

	return reg, nil
}

// Lookup ищет камеру по имени
func (r *Registry) Lookup(name string) (Camera, bool) {
	cam, ok := r.byName[name]
	return cam, ok
}

// First возвращает первую камеру реестра (выбор по умолчанию)
func (r *Registry) First() Camera {
	return r.cameras[0]
}

// Names возвращает имена камер в порядке конфигурации
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.cameras))
	for _, cam := range r.cameras {
		names = append(names, cam.Name)
	}
	return names
}

// Len возвращает количество камер
func (r *Registry) Len() int {
	return len(r.cameras)
}
