package client

import (
	"fmt"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
)

var ErrUnavailable = fmt.Errorf("server unavailable: %w", common.ErrTransport)
