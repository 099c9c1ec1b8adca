package api

type ApiServerConf struct {
	// TopologyPath is the topology YAML file to serve
	TopologyPath string
}

type ApiNetwork struct {
	CertAuthority string `json:"certAuthority"`
	Prefix        string `json:"prefix"`
	NodeCount     int    `json:"nodeCount"`
}

type ApiNode struct {
	Name       string   `json:"name"`
	IP         string   `json:"ip"`
	Port       int      `json:"port"`
	Lighthouse bool     `json:"lighthouse"`
	Public     string   `json:"public"`
	Groups     []string `json:"groups"`
}
