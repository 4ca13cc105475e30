package redisx

import (
	"fmt"

	"github.com/ariefcatur/go-shop-admin/internal/session"
)

// Session hash per shop: session:{offline id} -> {shop, access_token, scope}
const KeySession = "session:%s"

func sessionKey(shop string) string {
	return fmt.Sprintf(KeySession, session.OfflineID(shop))
}
