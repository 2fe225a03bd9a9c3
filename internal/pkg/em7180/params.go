package em7180

import (
	"fmt"

	"github.com/gethiox/sentral/internal/pkg/logger"
)

// writeParam loads value into parameter param of the fusion algorithm.
func (d *Driver) writeParam(param byte, value [4]byte) error {
	for i, b := range value {
		if err := d.write(regLoadParamByte0+byte(i), b); err != nil {
			return err
		}
	}
	if err := d.transferParam(param | paramWrite); err != nil {
		return err
	}
	return d.endParamTransfer()
}

// readParam returns the four bytes of parameter param, least significant first.
func (d *Driver) readParam(param byte) ([4]byte, error) {
	var value [4]byte
	if err := d.transferParam(param); err != nil {
		return value, err
	}
	if err := d.readBurst(regSavedParamByte0, value[:]); err != nil {
		return value, err
	}
	return value, d.endParamTransfer()
}

// transferParam requests a parameter transfer and polls until the firmware
// acknowledges request.
func (d *Driver) transferParam(request byte) error {
	if err := d.write(regParamRequest, request); err != nil {
		return err
	}
	if err := d.write(regAlgorithmControl, algorithmParamTransfer); err != nil {
		return err
	}

	for attempt := 0; attempt < d.opts.ParamAckAttempts; attempt++ {
		if attempt > 0 {
			d.opts.Sleep(d.opts.PollInterval)
		}
		ack, err := d.read(regParamAcknowledge)
		if err != nil {
			return err
		}
		if ack == request {
			return nil
		}
	}

	// leave the algorithm running even though the transfer failed
	if err := d.endParamTransfer(); err != nil {
		d.log.Info(fmt.Sprintf("ending parameter transfer failed: %s", err), logger.Warning)
	}
	return newError(CodeParamTimeout, fmt.Errorf(
		"parameter 0x%02X not acknowledged after %d reads", request, d.opts.ParamAckAttempts,
	))
}

func (d *Driver) endParamTransfer() error {
	if err := d.write(regParamRequest, 0x00); err != nil {
		return err
	}
	return d.write(regAlgorithmControl, algorithmNormal)
}
