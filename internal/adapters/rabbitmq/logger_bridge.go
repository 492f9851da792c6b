package rabbitmq

import (
	"fmt"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/pkg/rabbitmq/rabbitmq_common"
)

// PkgLoggerBridge lets the pkg-level rabbitmq code log through LoggerPort.
type PkgLoggerBridge struct {
	internalLogger port.LoggerPort
}

func NewPkgLoggerBridge(logger port.LoggerPort) rabbitmq_common.Logger {
	return &PkgLoggerBridge{internalLogger: logger}
}

// toFields pairs up keys and values. A key that is not a string is
// formatted, a trailing key without a value is logged under "!BADKEY".
// Error values are logged as their message.
func (b *PkgLoggerBridge) toFields(keysAndValues ...interface{}) port.Fields {
	if len(keysAndValues) == 0 {
		return nil
	}
	fields := make(port.Fields, (len(keysAndValues)+1)/2)
	for i := 0; i < len(keysAndValues); i += 2 {
		if i+1 >= len(keysAndValues) {
			fields["!BADKEY"] = keysAndValues[i]
			break
		}
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		value := keysAndValues[i+1]
		if err, ok := value.(error); ok {
			value = err.Error()
		}
		fields[key] = value
	}
	return fields
}

func (b *PkgLoggerBridge) Debug(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Debug(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Info(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Info(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Warn(msg string, keysAndValues ...interface{}) {
	b.internalLogger.Warn(msg, b.toFields(keysAndValues...))
}

func (b *PkgLoggerBridge) Error(err error, msg string, keysAndValues ...interface{}) {
	b.internalLogger.Error(msg, err, b.toFields(keysAndValues...))
}
