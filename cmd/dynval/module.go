package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/dynval/configs"
	"github.com/reusee/dynval/debugs"
	"github.com/reusee/dynval/logs"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs configs.Module
	Debugs  debugs.Module
}
