package domain

import (
	"encoding/base32"
	"encoding/binary"
)

const (
	accountIDLength     = 56
	versionByteAccount  = 6 << 3 // 'G'
	ed25519PublicKeyLen = 32
)

var strkeyEncoding = base32.StdEncoding.WithPadding(base32.NoPadding)

// IsValidAccountID reports whether s is a well-formed Stellar ed25519 public key
// ("G..." strkey: version byte, 32-byte key, CRC16-XModem checksum).
func IsValidAccountID(s string) bool {
	if len(s) != accountIDLength {
		return false
	}
	raw, err := strkeyEncoding.DecodeString(s)
	if err != nil {
		return false
	}
	if len(raw) != 1+ed25519PublicKeyLen+2 || raw[0] != versionByteAccount {
		return false
	}
	payload := raw[:len(raw)-2]
	want := binary.LittleEndian.Uint16(raw[len(raw)-2:])
	if crc16XModem(payload) != want {
		return false
	}
	// Reject non-canonical encodings whose trailing bits differ.
	return strkeyEncoding.EncodeToString(raw) == s
}

func crc16XModem(data []byte) uint16 {
	var crc uint16
	for _, b := range data {
		crc ^= uint16(b) << 8
		for range 8 {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// ShortAccountID abbreviates an address to "GABC...WXYZ" for titles and sheet names.
func ShortAccountID(id string) string {
	if len(id) <= 11 {
		return id
	}
	return id[:4] + "..." + id[len(id)-4:]
}
