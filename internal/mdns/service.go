// Package mdns advertises the server on the local network via Avahi so
// clients can discover it without manual configuration.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"

	"github.com/shelflifeapp/shelflife-server/internal/domain"
)

const (
	// ServiceType is the mDNS service type for ShelfLife servers.
	ServiceType = "_shelflife._tcp"

	// APIVersion is the current API version advertised in TXT records.
	APIVersion = "v1"

	// ServerVersion is the current server version advertised in TXT records.
	ServerVersion = "1.0.0"
)

// Service manages mDNS advertisement through the Avahi daemon.
// Advertisement failures are non-fatal; the server runs fine without it
// (Docker, cloud, no Avahi daemon).
type Service struct {
	logger *slog.Logger

	mu     sync.Mutex
	server *avahi.Server
	group  *avahi.EntryGroup
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Start begins advertising the server. Call after the HTTP server is up.
func (s *Service) Start(instance *domain.Instance, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		s.stopLocked()
	}

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect to system bus: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		return fmt.Errorf("connect to avahi daemon: %w", err)
	}

	group, err := server.EntryGroupNew()
	if err != nil {
		server.Close()
		return fmt.Errorf("create entry group: %w", err)
	}

	if err := s.publish(group, instance, port); err != nil {
		server.Close()
		return err
	}

	s.server = server
	s.group = group

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", port,
		"name", instance.Name,
		"id", instance.ID,
	)

	return nil
}

// Refresh re-publishes the service records, for when instance settings
// such as the server name change.
func (s *Service) Refresh(instance *domain.Instance, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return fmt.Errorf("mdns service not started")
	}

	if err := s.group.Reset(); err != nil {
		return fmt.Errorf("reset entry group: %w", err)
	}

	if err := s.publish(s.group, instance, port); err != nil {
		return err
	}

	s.logger.Info("mDNS advertisement refreshed", "name", instance.Name)
	return nil
}

// Stop withdraws the advertisement. Safe to call multiple times.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Service) stopLocked() {
	if s.server == nil {
		return
	}
	s.server.Close()
	s.server = nil
	s.group = nil
	s.logger.Info("mDNS advertisement stopped")
}

// publish registers the service records on an entry group and commits them.
func (s *Service) publish(group *avahi.EntryGroup, instance *domain.Instance, port int) error {
	host, err := os.Hostname()
	if err != nil {
		host = "shelflife-server"
	}

	err = group.AddService(
		avahi.InterfaceUnspec,
		avahi.ProtoUnspec,
		0,
		host,
		ServiceType,
		"", // domain, empty = .local
		"", // host, empty = system hostname
		uint16(port),
		txtRecords(instance),
	)
	if err != nil {
		return fmt.Errorf("add service: %w", err)
	}

	if err := group.Commit(); err != nil {
		return fmt.Errorf("commit entry group: %w", err)
	}

	return nil
}

// txtRecords builds the TXT metadata advertised alongside the service.
func txtRecords(instance *domain.Instance) [][]byte {
	records := [][]byte{
		[]byte("id=" + instance.ID),
		[]byte("name=" + instance.Name),
		[]byte("version=" + ServerVersion),
		[]byte("api=" + APIVersion),
	}
	if instance.RemoteURL != "" {
		records = append(records, []byte("remote="+instance.RemoteURL))
	}
	return records
}
