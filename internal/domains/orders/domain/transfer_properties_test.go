package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func validFTPProperties() *TransferProperties {
	return &TransferProperties{
		ID:         uuid.New(),
		FacilityID: uuid.New(),
		Protocol:   ProtocolFTP,
		FTP: &FTPProperties{
			Host:            "ftp.example.org",
			Port:            21,
			Username:        "orders",
			Password:        "secret",
			RemoteDirectory: "/incoming",
			PassiveMode:     true,
		},
	}
}

func TestTransferPropertiesValidate_FTP(t *testing.T) {
	require.NoError(t, validFTPProperties().Validate())

	missingHost := validFTPProperties()
	missingHost.FTP.Host = "  "
	require.ErrorIs(t, missingHost.Validate(), ErrIncompleteProperties)

	badPort := validFTPProperties()
	badPort.FTP.Port = 0
	require.ErrorIs(t, badPort.Validate(), ErrIncompleteProperties)

	missingUser := validFTPProperties()
	missingUser.FTP.Username = ""
	require.ErrorIs(t, missingUser.Validate(), ErrIncompleteProperties)

	noPayload := validFTPProperties()
	noPayload.FTP = nil
	require.ErrorIs(t, noPayload.Validate(), ErrIncompleteProperties)
}

func TestTransferPropertiesValidate_Local(t *testing.T) {
	props := &TransferProperties{
		ID:         uuid.New(),
		FacilityID: uuid.New(),
		Protocol:   ProtocolLocal,
		Local:      &LocalProperties{Path: "/var/lib/orders/outbound"},
	}
	require.NoError(t, props.Validate())

	props.Local.Path = ""
	require.ErrorIs(t, props.Validate(), ErrIncompleteProperties)

	props.Local = nil
	require.ErrorIs(t, props.Validate(), ErrIncompleteProperties)
}

func TestTransferPropertiesValidate_Discriminant(t *testing.T) {
	noFacility := validFTPProperties()
	noFacility.FacilityID = uuid.Nil
	require.ErrorIs(t, noFacility.Validate(), ErrIncompleteProperties)

	unknown := validFTPProperties()
	unknown.Protocol = "sftp"
	require.ErrorIs(t, unknown.Validate(), ErrUnknownProtocol)
}
