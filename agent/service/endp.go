package service

// Addr is the public access point of an agent: a service endpoint URL and the
// recipient key the payloads are packed for.
type Addr struct {
	Endp string `json:"endpoint"`
	Key  string `json:"verkey"`
}

func (a Addr) Valid() bool {
	return a.Endp != "" && a.Key != ""
}
