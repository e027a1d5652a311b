package mapper

import (
	"github.com/google/uuid"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
)

// TransferProperties is the wire representation of a facility's transfer
// configuration. The protocol field selects which settings block applies.
type TransferProperties struct {
	ID         uuid.UUID        `json:"id"`
	FacilityID uuid.UUID        `json:"facilityId"`
	Protocol   string           `json:"protocol"`
	FTP        *FTPProperties   `json:"ftp,omitempty"`
	Local      *LocalProperties `json:"local,omitempty"`
}

type FTPProperties struct {
	Host            string `json:"host"`
	Port            int    `json:"port"`
	Username        string `json:"username"`
	Password        string `json:"password,omitempty"`
	RemoteDirectory string `json:"remoteDirectory"`
	LocalDirectory  string `json:"localDirectory"`
	PassiveMode     bool   `json:"passiveMode"`
}

type LocalProperties struct {
	Path string `json:"path"`
}

func ToTransferProperties(payload TransferProperties) *domain.TransferProperties {
	props := &domain.TransferProperties{
		ID:         payload.ID,
		FacilityID: payload.FacilityID,
		Protocol:   domain.TransferProtocol(payload.Protocol),
	}
	if payload.FTP != nil {
		props.FTP = &domain.FTPProperties{
			Host:            payload.FTP.Host,
			Port:            payload.FTP.Port,
			Username:        payload.FTP.Username,
			Password:        payload.FTP.Password,
			RemoteDirectory: payload.FTP.RemoteDirectory,
			LocalDirectory:  payload.FTP.LocalDirectory,
			PassiveMode:     payload.FTP.PassiveMode,
		}
	}
	if payload.Local != nil {
		props.Local = &domain.LocalProperties{Path: payload.Local.Path}
	}
	return props
}

// FromTransferProperties maps to the wire form. The FTP password is never
// echoed back.
func FromTransferProperties(props *domain.TransferProperties) TransferProperties {
	payload := TransferProperties{
		ID:         props.ID,
		FacilityID: props.FacilityID,
		Protocol:   string(props.Protocol),
	}
	if props.FTP != nil {
		payload.FTP = &FTPProperties{
			Host:            props.FTP.Host,
			Port:            props.FTP.Port,
			Username:        props.FTP.Username,
			RemoteDirectory: props.FTP.RemoteDirectory,
			LocalDirectory:  props.FTP.LocalDirectory,
			PassiveMode:     props.FTP.PassiveMode,
		}
	}
	if props.Local != nil {
		payload.Local = &LocalProperties{Path: props.Local.Path}
	}
	return payload
}
