// version.go
package version

import "fmt"

// AppName holds the name of the application
var AppName = "go-api-auth-interceptor"

// SDKVersion holds the current version of the application
var SDKVersion = "0.1.0"

// UserAgentBase is the product token sent on API requests that carry no User-Agent of their own.
const UserAgentBase = "go-api-auth-interceptor"

// GetAppName returns the name of the application
func GetAppName() string {
	return AppName
}

// GetVersion returns the current version of the application
func GetVersion() string {
	return SDKVersion
}

// GetUserAgentHeader returns the User-Agent value for API requests.
func GetUserAgentHeader() string {
	return fmt.Sprintf("%s/%s", UserAgentBase, SDKVersion)
}
