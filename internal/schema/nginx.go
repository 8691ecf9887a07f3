package schema

// Reverse proxy core: servers, locations, their parameters and certificates.
var coreTables = []string{
	"certificates", "params", "locations", "reverse_proxy",
	"location_params", "server_locations", "server_params",
}

var coreRelationships = []Relationship{
	{"location_params", "locations"},
	{"location_params", "params"},
	{"server_locations", "reverse_proxy"},
	{"server_locations", "locations"},
	{"server_params", "reverse_proxy"},
	{"server_params", "params"},
	{"reverse_proxy", "certificates"}, // ssl_cert_id
}

var nginxCore = Catalog{
	Name:          "nginx",
	Title:         "NGINX Reverse Proxy DB Schema",
	Tables:        coreTables,
	Relationships: coreRelationships,
}

var nginxFull = Catalog{
	Name:  "nginx-full",
	Title: "NGINX Reverse Proxy DB Schema (full)",
	Tables: concat(coreTables, []string{
		// audit and bookkeeping
		"configuration_history", "config_file_index", "history_Nginx",
		"log_site", "cfg_rsnapshot", "modifiedFiles",
		// scan import
		"nginx_scans", "ssl_certificates", "nginx_config_files",
		"nginx_servers", "nginx_ssl_certificates",
	}),
	Relationships: concat(coreRelationships, []Relationship{
		{"ssl_certificates", "nginx_scans"},
		{"nginx_config_files", "nginx_scans"},
		{"nginx_servers", "nginx_config_files"},
		{"nginx_ssl_certificates", "nginx_servers"},
		{"nginx_ssl_certificates", "ssl_certificates"},
		// table_name/record_id audit rows
		{"configuration_history", "reverse_proxy"},
		{"configuration_history", "locations"},
		{"configuration_history", "params"},
		{"history_Nginx", "reverse_proxy"},
		{"history_Nginx", "locations"},
		{"config_file_index", "nginx_config_files"},
		{"modifiedFiles", "config_file_index"},
	}),
}

func concat[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
