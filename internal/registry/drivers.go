package registry

import (
	_ "github.com/Alia5/HIDRA/driver/nintendo" // Register nintendo controller driver
)
