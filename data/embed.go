package data

import (
	_ "embed"
)

//go:embed onlv_empty.json
var OnlvEmptyTemplate []byte
