package mojang

import (
	"net/url"
)

const (
	mojangAPI            = "https://api.mojang.com"
	mojangSessionServer  = "https://sessionserver.mojang.com"
	minecraftServicesAPI = "https://api.minecraftservices.com"
)

type BaseURL struct {
	api           string
	sessionServer string
	services      string
}

func NewMojangBaseURL() *BaseURL {
	return NewBaseURL(mojangAPI, mojangSessionServer, minecraftServicesAPI)
}

func NewBaseURL(api string, sessionServer string, services string) *BaseURL {
	return &BaseURL{
		api:           api,
		sessionServer: sessionServer,
		services:      services,
	}
}

func getQueryURL(base string, query url.Values) string {
	if len(query) == 0 {
		return base
	} else {
		return base + "?" + query.Encode()
	}
}

func (u *BaseURL) API(endpoint string, query url.Values) string {
	return getQueryURL(u.api+endpoint, query)
}

func (u *BaseURL) SessionServer(endpoint string, query url.Values) string {
	return getQueryURL(u.sessionServer+endpoint, query)
}

func (u *BaseURL) Services(endpoint string, query url.Values) string {
	return getQueryURL(u.services+endpoint, query)
}
