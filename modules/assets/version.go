package assets

const Version = "v0.1.0"
