package res

const (
	AppName       = "mprisbar"
	DisplayName   = "mprisbar"
	AppVersion    = "0.3.0"
	AppVersionTag = "v" + AppVersion
	GithubURL     = "https://github.com/dweymouth/mprisbar"
)
