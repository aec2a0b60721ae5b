package version

// Version is overridden at link time with -ldflags "-X".
var Version = "dev"
