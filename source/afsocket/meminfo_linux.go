/*
 * MIT License
 *
 * Copyright (c) 2026 syslog-ng authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

//go:build linux

package afsocket

import (
	"net"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux's SK_MEMINFO vector (include/uapi/linux/sock_diag.h): the slots
// this probe reads out of the array SO_MEMINFO fills in.
const (
	skMemInfoRmemAlloc = 0
	skMemInfoRcvbuf    = 1
	skMemInfoDrops     = 8
	skMemInfoVars      = 9
)

type syscallConner interface {
	SyscallConn() (syscall.RawConn, error)
}

// probeSocketMemInfo reads SO_MEMINFO off pc's underlying fd (spec §4.5
// "On platforms exposing SO_MEMINFO ... reads the datagram socket's
// drop/buffer counters"), mirroring the original driver's
// getsockopt(SOL_SOCKET, SO_MEMINFO, ...) call.
func probeSocketMemInfo(pc net.PacketConn) (dropped, bufMax, bufUsed uint64, ok bool) {
	sc, isRawConn := pc.(syscallConner)
	if !isRawConn {
		return 0, 0, 0, false
	}
	rc, err := sc.SyscallConn()
	if err != nil {
		return 0, 0, 0, false
	}

	var info [skMemInfoVars]uint32
	var sockErr error
	ctrlErr := rc.Control(func(fd uintptr) {
		infoLen := uint32(unsafe.Sizeof(info))
		_, _, errno := unix.Syscall6(unix.SYS_GETSOCKOPT, fd,
			uintptr(unix.SOL_SOCKET), uintptr(unix.SO_MEMINFO),
			uintptr(unsafe.Pointer(&info)), uintptr(unsafe.Pointer(&infoLen)), 0)
		if errno != 0 {
			sockErr = errno
		}
	})
	if ctrlErr != nil || sockErr != nil {
		return 0, 0, 0, false
	}

	return uint64(info[skMemInfoDrops]), uint64(info[skMemInfoRcvbuf]), uint64(info[skMemInfoRmemAlloc]), true
}
