package version

// Version is the soroban release. Override at build time with:
//
//	go build -ldflags "-X github.com/vanderheijden86/soroban/pkg/version.Version=v1.2.3"
var Version = "v0.1.0"
