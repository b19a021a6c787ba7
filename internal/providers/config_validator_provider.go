package providers

import (
	"errors"
	"fmt"
	"signin/internal/structures"
	"strings"
	"time"

	"github.com/gookit/validate"
)

type CnfValidator struct {
	conf *structures.Config
}

func NewCnfValidator(conf *structures.Config) *CnfValidator {
	return &CnfValidator{conf: conf}
}

// maxRemoteTimeout caps remote.timeout; a sign-in response waits for the forward.
const maxRemoteTimeout = time.Minute

func (c *CnfValidator) Validate() error {
	v := validate.Struct(c.conf)
	if !v.Validate() {
		return fmt.Errorf("invalid config: %w", v.Errors)
	}

	if c.conf.Remote.Enabled {
		if c.conf.Remote.BaseURL == "" {
			return errors.New("invalid config: remote.baseUrl is required when remote sync is enabled")
		}
		if !strings.HasPrefix(c.conf.Remote.BaseURL, "http://") && !strings.HasPrefix(c.conf.Remote.BaseURL, "https://") {
			return fmt.Errorf("invalid config: remote.baseUrl %q must be an http(s) URL", c.conf.Remote.BaseURL)
		}
	}

	if c.conf.Remote.Timeout < 0 || c.conf.Remote.Timeout > maxRemoteTimeout {
		return fmt.Errorf("invalid config: remote.timeout %s must be between 0 and %s", c.conf.Remote.Timeout, maxRemoteTimeout)
	}

	switch c.conf.Storage.Driver {
	case "file":
		if c.conf.Storage.FilePath == "" {
			return errors.New("invalid config: storage.filePath is required for the file driver")
		}
	case "sqlite":
		if c.conf.Storage.SQLitePath == "" {
			return errors.New("invalid config: storage.sqlitePath is required for the sqlite driver")
		}
	case "redis":
		if c.conf.Storage.RedisAddr == "" {
			return errors.New("invalid config: storage.redisAddr is required for the redis driver")
		}
	}

	if len(c.conf.SignIn.Courses) == 0 {
		return errors.New("invalid config: signin.courses must list at least one course")
	}
	for _, course := range c.conf.SignIn.Courses {
		if strings.TrimSpace(course) == "" {
			return errors.New("invalid config: signin.courses must not contain empty names")
		}
	}
	return nil
}
