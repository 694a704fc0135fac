package document

// SecurityScheme defines an authentication mechanism usable by operations.
type SecurityScheme struct {
	// Type is "apiKey", "http", "oauth2", "openIdConnect" or "mutualTLS".
	Type        string
	Description string

	// apiKey
	Name string
	In   string

	// http
	Scheme       string
	BearerFormat string

	// oauth2
	Flows *OAuthFlows

	// openIdConnect
	OpenIDConnectURL string
}

// OAuthFlows lists the supported OAuth flows.
type OAuthFlows struct {
	Implicit          *OAuthFlow
	Password          *OAuthFlow
	ClientCredentials *OAuthFlow
	AuthorizationCode *OAuthFlow
}

// OAuthFlow configures a single OAuth flow.
type OAuthFlow struct {
	AuthorizationURL string
	TokenURL         string
	RefreshURL       string
	Scopes           map[string]string
}

// NewAPIKeyScheme returns an apiKey scheme carried in header, query or cookie.
func NewAPIKeyScheme(in, name string) *SecurityScheme {
	return &SecurityScheme{Type: "apiKey", In: in, Name: name}
}

// NewBearerScheme returns an http bearer scheme.
func NewBearerScheme(format string) *SecurityScheme {
	return &SecurityScheme{Type: "http", Scheme: "bearer", BearerFormat: format}
}
