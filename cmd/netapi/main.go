// Command netapi builds the endpoint as a C shared library:
//
//	go build -buildmode=c-shared -o libnetapi.so ./cmd/netapi
//
// The exported functions keep the classic network manager signatures.
// Handles are table keys, not pointers.
package main

/*
#include <stdbool.h>
#include <stdint.h>
*/
import "C"

import (
	"unsafe"

	"lobbynet/internal/handle"
)

//export create_network_manager
func create_network_manager(role C.int) C.int64_t {
	return C.int64_t(handle.Default.Create(int(role)))
}

//export start_network_manager
func start_network_manager(h C.int64_t, ip *C.char, port C.int) C.bool {
	address := ""
	if ip != nil {
		address = C.GoString(ip)
	}
	return C.bool(handle.Default.Start(handle.Handle(h), address, int(port)))
}

// poll_network_message truncates silently when the message does not fit.
//
//export poll_network_message
func poll_network_message(h C.int64_t, buffer *C.char, bufferSize C.int) C.bool {
	if buffer == nil || bufferSize <= 0 {
		return C.bool(false)
	}
	buf := unsafe.Slice((*byte)(unsafe.Pointer(buffer)), int(bufferSize))
	return C.bool(handle.Default.Poll(handle.Handle(h), buf))
}

//export broadcast_network_message
func broadcast_network_message(h C.int64_t, message *C.char) {
	text := ""
	if message != nil {
		text = C.GoString(message)
	}
	handle.Default.Send(handle.Handle(h), text)
}

//export destroy_network_manager
func destroy_network_manager(h C.int64_t) {
	handle.Default.Destroy(handle.Handle(h))
}

func main() {}
