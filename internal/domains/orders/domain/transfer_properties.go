package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// TransferProtocol discriminates the transfer properties variants.
type TransferProtocol string

const (
	ProtocolFTP   TransferProtocol = "ftp"
	ProtocolLocal TransferProtocol = "local"
)

var (
	ErrUnknownProtocol      = errors.New("transfer protocol is unknown")
	ErrIncompleteProperties = errors.New("transfer properties are incomplete")
)

// TransferProperties describes how staged order files leave the system for one
// supplying facility. Exactly one of FTP/Local is set, matching Protocol.
type TransferProperties struct {
	ID         uuid.UUID
	FacilityID uuid.UUID
	Protocol   TransferProtocol
	FTP        *FTPProperties
	Local      *LocalProperties
}

// FTPProperties configures an outbound FTP transfer.
type FTPProperties struct {
	Host            string
	Port            int
	Username        string
	Password        string
	RemoteDirectory string
	LocalDirectory  string
	PassiveMode     bool
}

// LocalProperties configures a local-copy transfer.
type LocalProperties struct {
	Path string
}

// Validate checks the discriminant and the matching variant payload.
func (p *TransferProperties) Validate() error {
	if p.FacilityID == uuid.Nil {
		return ErrIncompleteProperties
	}
	switch p.Protocol {
	case ProtocolFTP:
		if p.FTP == nil || strings.TrimSpace(p.FTP.Host) == "" || p.FTP.Port <= 0 {
			return ErrIncompleteProperties
		}
		if strings.TrimSpace(p.FTP.Username) == "" || strings.TrimSpace(p.FTP.RemoteDirectory) == "" {
			return ErrIncompleteProperties
		}
		return nil
	case ProtocolLocal:
		if p.Local == nil || strings.TrimSpace(p.Local.Path) == "" {
			return ErrIncompleteProperties
		}
		return nil
	default:
		return ErrUnknownProtocol
	}
}
