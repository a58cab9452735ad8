package models

const (
	AppName = "cutplot"
	Version = "v1.2.0"
)
