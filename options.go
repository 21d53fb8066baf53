package assesscore

import (
	"github.com/pkg/errors"

	"github.com/sentaku/assess-core/internal/util"
)

// configuration option to be supplied to the
// service constructor
type Option func(*AssessmentService) error

// apply all supplied options to the service, and fill any
// gaps with sensible defaults
func (s *AssessmentService) setOptions(options ...Option) error {

	for _, opt := range options {
		if err := opt(s); err != nil {
			return err
		}
	}

	if s.serviceName == "" {
		s.serviceName = util.GenerateName()
	}
	if s.serviceID == "" {
		s.serviceID = util.GenerateID()
	}
	if s.serviceHost == "" {
		s.serviceHost = "localhost"
	}
	if s.servicePort == 0 {
		port, err := util.AvailablePort()
		if err != nil {
			return errors.Wrap(err, "cannot assign service port")
		}
		s.servicePort = port
	}
	if s.catalogSource == "" {
		s.catalogSource = "items.json"
	}

	return nil
}

// the name for this instance of the service, leave empty
// to have a unique name auto-generated
func Name(name string) Option {
	return func(s *AssessmentService) error {
		s.serviceName = name
		return nil
	}
}

// the id for this instance of the service, leave empty
// to have a unique id auto-generated
func ID(id string) Option {
	return func(s *AssessmentService) error {
		s.serviceID = id
		return nil
	}
}

// the host address this service will run on
func Host(host string) Option {
	return func(s *AssessmentService) error {
		s.serviceHost = host
		return nil
	}
}

// the port this service will run on, 0 assigns an
// available port automatically
func Port(port int) Option {
	return func(s *AssessmentService) error {
		if port < 0 {
			return errors.New("port must not be negative")
		}
		s.servicePort = port
		return nil
	}
}

// file path or http(s) url of the item catalog (items.json)
func CatalogSource(source string) Option {
	return func(s *AssessmentService) error {
		s.catalogSource = source
		return nil
	}
}

// sqlite file backing the record store; leave empty to keep
// histories in memory only
func StorePath(path string) Option {
	return func(s *AssessmentService) error {
		s.storePath = path
		return nil
	}
}
