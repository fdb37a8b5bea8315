package ajo

import (
	"encoding/binary"
	"fmt"
)

// Binary account format, big-endian, fixed offsets. The participant and
// vote lists are length-prefixed and bounded by MaxParticipants, so the
// maximum account size is known at allocation time.

const (
	registrySize = 65 // total(8) + active(8) + completed(8) + revenue(8) + admin(32) + fee(1)

	groupFixedSize  = 36 // everything except name bytes and the two lists
	participantSize = 42 // identity(32) + contribution_round(2) + refund_amount(8)
	closeVoteSize   = 32 // identity
)

// RegistrySize returns the allocation size of a serialized registry.
func RegistrySize() int { return registrySize }

// GroupSize returns the maximum allocation size of a serialized group
// with the given name and membership bound: every participant joined and
// every participant voted to close.
func GroupSize(name string, numParticipants uint8) int {
	return groupFixedSize + len(name) + int(numParticipants)*(participantSize+closeVoteSize)
}

// SerializeRegistry encodes a GlobalRegistry to its binary account format.
func SerializeRegistry(r *GlobalRegistry) []byte {
	buf := make([]byte, registrySize)
	binary.BigEndian.PutUint64(buf[0:8], r.TotalGroups)
	binary.BigEndian.PutUint64(buf[8:16], r.ActiveGroups)
	binary.BigEndian.PutUint64(buf[16:24], r.CompletedGroups)
	binary.BigEndian.PutUint64(buf[24:32], r.TotalRevenue)
	copy(buf[32:64], r.Admin[:])
	buf[64] = r.FeePermille
	return buf
}

// DeserializeRegistry decodes binary data into a GlobalRegistry.
func DeserializeRegistry(data []byte) (*GlobalRegistry, error) {
	if len(data) != registrySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidRegistryData, registrySize, len(data))
	}
	r := &GlobalRegistry{
		TotalGroups:     binary.BigEndian.Uint64(data[0:8]),
		ActiveGroups:    binary.BigEndian.Uint64(data[8:16]),
		CompletedGroups: binary.BigEndian.Uint64(data[16:24]),
		TotalRevenue:    binary.BigEndian.Uint64(data[24:32]),
		FeePermille:     data[64],
	}
	copy(r.Admin[:], data[32:64])
	return r, nil
}

// SerializeGroup encodes a Group to its binary account format.
func SerializeGroup(g *Group) ([]byte, error) {
	if len(g.Name) > MaxNameLen {
		return nil, fmt.Errorf("%w: name %d bytes exceeds %d", ErrInvalidGroupData, len(g.Name), MaxNameLen)
	}
	if len(g.Participants) > MaxParticipants || len(g.CloseVotes) > MaxParticipants {
		return nil, fmt.Errorf("%w: %d participants, %d votes (max %d)",
			ErrInvalidGroupData, len(g.Participants), len(g.CloseVotes), MaxParticipants)
	}

	size := groupFixedSize + len(g.Name) +
		len(g.Participants)*participantSize + len(g.CloseVotes)*closeVoteSize
	buf := make([]byte, size)
	offset := 0

	buf[offset] = uint8(len(g.Name))
	offset++
	copy(buf[offset:], g.Name)
	offset += len(g.Name)

	binary.BigEndian.PutUint64(buf[offset:], g.SecurityDeposit)
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], g.ContributionAmount)
	offset += 8
	binary.BigEndian.PutUint16(buf[offset:], g.ContributionInterval)
	offset += 2
	binary.BigEndian.PutUint16(buf[offset:], g.PayoutInterval)
	offset += 2
	buf[offset] = g.NumParticipants
	offset++

	if g.Started {
		buf[offset] = 1
	}
	offset++
	binary.BigEndian.PutUint64(buf[offset:], uint64(g.StartTimestamp))
	offset += 8

	binary.BigEndian.PutUint16(buf[offset:], g.PayoutRound)
	offset += 2

	buf[offset] = uint8(len(g.Participants))
	offset++
	for i := range g.Participants {
		p := &g.Participants[i]
		copy(buf[offset:offset+32], p.Identity[:])
		offset += 32
		binary.BigEndian.PutUint16(buf[offset:], p.ContributionRound)
		offset += 2
		binary.BigEndian.PutUint64(buf[offset:], p.RefundAmount)
		offset += 8
	}

	buf[offset] = uint8(len(g.CloseVotes))
	offset++
	for i := range g.CloseVotes {
		copy(buf[offset:offset+32], g.CloseVotes[i][:])
		offset += 32
	}

	if g.IsClosed {
		buf[offset] = 1
	}
	return buf, nil
}

// DeserializeGroup decodes binary data into a Group.
func DeserializeGroup(data []byte) (*Group, error) {
	if len(data) < groupFixedSize {
		return nil, fmt.Errorf("%w: too short (%d bytes)", ErrInvalidGroupData, len(data))
	}
	offset := 0

	nameLen := int(data[offset])
	offset++
	if nameLen > MaxNameLen || len(data) < groupFixedSize+nameLen {
		return nil, fmt.Errorf("%w: bad name length %d", ErrInvalidGroupData, nameLen)
	}
	g := &Group{Name: string(data[offset : offset+nameLen])}
	offset += nameLen

	g.SecurityDeposit = binary.BigEndian.Uint64(data[offset:])
	offset += 8
	g.ContributionAmount = binary.BigEndian.Uint64(data[offset:])
	offset += 8
	g.ContributionInterval = binary.BigEndian.Uint16(data[offset:])
	offset += 2
	g.PayoutInterval = binary.BigEndian.Uint16(data[offset:])
	offset += 2
	g.NumParticipants = data[offset]
	offset++

	g.Started = data[offset] == 1
	offset++
	g.StartTimestamp = int64(binary.BigEndian.Uint64(data[offset:]))
	offset += 8

	g.PayoutRound = binary.BigEndian.Uint16(data[offset:])
	offset += 2

	numParticipants := int(data[offset])
	offset++
	if numParticipants > MaxParticipants {
		return nil, fmt.Errorf("%w: %d participants exceeds %d", ErrInvalidGroupData, numParticipants, MaxParticipants)
	}
	if len(data) < offset+numParticipants*participantSize+1 {
		return nil, fmt.Errorf("%w: truncated participant list", ErrInvalidGroupData)
	}
	if numParticipants > 0 {
		g.Participants = make([]Participant, numParticipants)
	}
	for i := 0; i < numParticipants; i++ {
		copy(g.Participants[i].Identity[:], data[offset:offset+32])
		offset += 32
		g.Participants[i].ContributionRound = binary.BigEndian.Uint16(data[offset:])
		offset += 2
		g.Participants[i].RefundAmount = binary.BigEndian.Uint64(data[offset:])
		offset += 8
	}

	numVotes := int(data[offset])
	offset++
	if numVotes > MaxParticipants {
		return nil, fmt.Errorf("%w: %d votes exceeds %d", ErrInvalidGroupData, numVotes, MaxParticipants)
	}
	if len(data) < offset+numVotes*closeVoteSize+1 {
		return nil, fmt.Errorf("%w: truncated vote list", ErrInvalidGroupData)
	}
	if numVotes > 0 {
		g.CloseVotes = make([]Address, numVotes)
	}
	for i := 0; i < numVotes; i++ {
		copy(g.CloseVotes[i][:], data[offset:offset+32])
		offset += 32
	}

	g.IsClosed = data[offset] == 1
	return g, nil
}
