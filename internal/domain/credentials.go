package domain

// Credentials son las credenciales de Steam usadas para login y descargas.
// Anonymous cubre el contenido gratuito; las cuentas con juegos pagos
// requieren usuario y contraseña
type Credentials struct {
	Username  string
	Password  string
	Anonymous bool
}

// AnonymousCredentials retorna las credenciales del usuario anónimo de Steam
func AnonymousCredentials() Credentials {
	return Credentials{Anonymous: true}
}

// LoginName retorna el nombre con el que se presenta el login
func (c Credentials) LoginName() string {
	if c.Anonymous || c.Username == "" {
		return "anonymous"
	}
	return c.Username
}

// Valid retorna true si las credenciales son usables: anónimas, o con
// usuario y contraseña presentes
func (c Credentials) Valid() bool {
	if c.Anonymous {
		return true
	}
	return c.Username != "" && c.Password != ""
}
