package input

import (
	"fmt"
	"sync"

	"github.com/goburrow/modbus"
	"github.com/rileyhilliard/zbxboard/internal/board"
	"github.com/rileyhilliard/zbxboard/internal/config"
	"github.com/rileyhilliard/zbxboard/internal/errors"
)

// bitReader is the subset of modbus.Client the pins need.
type bitReader interface {
	ReadDiscreteInputs(address, quantity uint16) ([]byte, error)
	ReadCoils(address, quantity uint16) ([]byte, error)
}

// ModbusBus is a connection to a Modbus TCP I/O module. Buttons wired to
// its inputs are read as single bits. Reads are serialized.
type ModbusBus struct {
	mu       sync.Mutex
	client   bitReader
	function string
	closer   func() error
}

// OpenModbus connects to the module described by cfg.
func OpenModbus(cfg config.ModbusConfig) (*ModbusBus, error) {
	handler := modbus.NewTCPClientHandler(cfg.Endpoint)
	handler.Timeout = cfg.Timeout
	handler.SlaveId = byte(cfg.SlaveID)

	if err := handler.Connect(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrInput,
			fmt.Sprintf("Couldn't connect to the Modbus I/O module at %s", cfg.Endpoint),
			"Check input.modbus.endpoint, or run with --input keyboard.")
	}

	bus := newModbusBus(modbus.NewClient(handler), cfg.Function)
	bus.closer = handler.Close
	return bus, nil
}

func newModbusBus(client bitReader, function string) *ModbusBus {
	if function == "" {
		function = config.ModbusDiscrete
	}
	return &ModbusBus{client: client, function: function}
}

// Pin returns the input at address as a board.Pin.
func (b *ModbusBus) Pin(address uint16) board.Pin {
	return &modbusPin{bus: b, address: address}
}

// Close drops the TCP connection.
func (b *ModbusBus) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer()
}

func (b *ModbusBus) readBit(address uint16) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var (
		data []byte
		err  error
	)
	if b.function == config.ModbusCoil {
		data, err = b.client.ReadCoils(address, 1)
	} else {
		data, err = b.client.ReadDiscreteInputs(address, 1)
	}
	if err != nil {
		return false, fmt.Errorf("read %s %d: %w", b.function, address, err)
	}
	if len(data) == 0 {
		return false, fmt.Errorf("read %s %d: empty response", b.function, address)
	}
	return data[0]&0x01 == 0x01, nil
}

// modbusPin reads one bit. It blocks for at most the handler timeout.
type modbusPin struct {
	bus     *ModbusBus
	address uint16
}

func (p *modbusPin) Level() (bool, error) {
	return p.bus.readBit(p.address)
}
