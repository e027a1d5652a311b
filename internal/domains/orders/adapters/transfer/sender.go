// Package transfer delivers staged order files to the supplying facility
// over whichever channel its transfer properties configure.
package transfer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/openlmis/fulfillment/internal/domains/orders/domain"
	"github.com/openlmis/fulfillment/internal/domains/orders/ports"
)

var _ ports.OrderSender = (*Sender)(nil)

// StagedFiles resolves the on-disk location of an order's staged transfer
// file.
type StagedFiles interface {
	Path(ctx context.Context, order *domain.Order) (string, error)
}

// Sender transfers a staged order file using the supplying facility's
// transfer properties. Transport failures are reported as (false, nil) so
// the caller can keep the staged file and retry later; missing or invalid
// configuration is an error.
type Sender struct {
	props   ports.TransferPropertiesRepository
	staged  StagedFiles
	logger  *slog.Logger
	timeout time.Duration
}

func NewSender(props ports.TransferPropertiesRepository, staged StagedFiles, logger *slog.Logger) *Sender {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sender{props: props, staged: staged, logger: logger, timeout: 30 * time.Second}
}

func (s *Sender) Send(ctx context.Context, order *domain.Order) (bool, error) {
	props, err := s.props.FindByFacilityID(ctx, order.SupplyingFacilityID)
	if err != nil {
		return false, fmt.Errorf("load transfer properties: %w", err)
	}
	if props == nil {
		return false, fmt.Errorf("facility %s has no transfer properties", order.SupplyingFacilityID)
	}
	if err := props.Validate(); err != nil {
		return false, err
	}

	path, err := s.staged.Path(ctx, order)
	if err != nil {
		return false, err
	}

	switch props.Protocol {
	case domain.ProtocolFTP:
		if err := s.sendFTP(ctx, props.FTP, path); err != nil {
			s.logger.WarnContext(ctx, "ftp transfer failed",
				slog.String("order_code", order.OrderCode),
				slog.String("host", props.FTP.Host),
				slog.Any("error", err))
			return false, nil
		}
	case domain.ProtocolLocal:
		if err := copyLocal(path, props.Local.Path); err != nil {
			s.logger.WarnContext(ctx, "local transfer failed",
				slog.String("order_code", order.OrderCode),
				slog.String("target", props.Local.Path),
				slog.Any("error", err))
			return false, nil
		}
	default:
		return false, domain.ErrUnknownProtocol
	}
	return true, nil
}

func (s *Sender) sendFTP(ctx context.Context, props *domain.FTPProperties, path string) error {
	addr := fmt.Sprintf("%s:%d", props.Host, props.Port)
	conn, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(s.timeout))
	if err != nil {
		return fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Quit()
	if err := conn.Login(props.Username, props.Password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open staged file: %w", err)
	}
	defer file.Close()
	remote := filepath.Base(path)
	if props.RemoteDirectory != "" {
		remote = props.RemoteDirectory + "/" + remote
	}
	if err := conn.Stor(remote, file); err != nil {
		return fmt.Errorf("store %s: %w", remote, err)
	}
	return nil
}

func copyLocal(path, targetDir string) error {
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return fmt.Errorf("create target directory: %w", err)
	}
	src, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open staged file: %w", err)
	}
	defer src.Close()
	target := filepath.Join(targetDir, filepath.Base(path))
	dst, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create %s: %w", target, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("copy to %s: %w", target, err)
	}
	return dst.Close()
}
