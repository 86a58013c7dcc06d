package types

// Version is overwritten at build time by -ldflags "-X ...types.Version=..."
var Version = "dev"

// AppName is used for the CLI name, the settings directory and the User-Agent header
const AppName = "wago-release"
