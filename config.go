package ontstat

import (
	"gopkg.in/ini.v1"
)

// LoadCredentials reads the login credentials from an INI file with an
// [ont] section containing username and password keys.
func LoadCredentials(path string) (Credentials, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return Credentials{}, &ConfigError{Reason: "could not read credentials file " + path, Err: err}
	}
	sec, err := cfg.GetSection("ont")
	if err != nil {
		return Credentials{}, &ConfigError{Reason: "missing [ont] section in " + path}
	}
	username, err := sec.GetKey("username")
	if err != nil {
		return Credentials{}, &ConfigError{Reason: "missing 'username' in [ont] section of " + path}
	}
	password, err := sec.GetKey("password")
	if err != nil {
		return Credentials{}, &ConfigError{Reason: "missing 'password' in [ont] section of " + path}
	}
	return Credentials{
		Username: username.String(),
		Password: password.String(),
	}, nil
}
