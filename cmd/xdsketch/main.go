package main

import (
	"oss.terrastruct.com/xdsketch/lib/xmain"
	"oss.terrastruct.com/xdsketch/xdcli"
)

func main() {
	xmain.Main(xdcli.Run)
}
