package utils

import (
	"time"
)

const HTTPReqTimeout = 1 * time.Minute

var Settings = &Hub{timeout: HTTPReqTimeout}

// Hub carries the process wide settings: relay address, request timeout, and
// data paths. Values are set from CLI flags or env before agents are built.
type Hub struct {
	agencyURL   string        // relay (cloud agency) base URL
	timeout     time.Duration // timeout setting for http requests
	dataPath    string        // base dir for bolt files
	versionInfo string        // version number etc. in free format
}

func (h *Hub) AgencyURL() string {
	return h.agencyURL
}

func (h *Hub) SetAgencyURL(u string) {
	h.agencyURL = u
}

// SetTimeout sets the default timeout for relay HTTP requests.
func (h *Hub) SetTimeout(to time.Duration) {
	h.timeout = to
}

func (h *Hub) Timeout() time.Duration {
	if h.timeout == 0 {
		return HTTPReqTimeout
	}
	return h.timeout
}

func (h *Hub) DataPath() string {
	return h.dataPath
}

func (h *Hub) SetDataPath(p string) {
	h.dataPath = p
}

func (h *Hub) VersionInfo() string {
	return h.versionInfo
}

func (h *Hub) SetVersionInfo(info string) {
	h.versionInfo = info
}
