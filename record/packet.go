// Copyright (C) 2025 sage-x-project
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.

// SPDX-License-Identifier: LGPL-3.0-or-later

package record

import "fmt"

// PacketKind is a packet's header key: the JSTP message kind.
type PacketKind string

const (
	PacketHandshake PacketKind = "handshake"
	PacketCall      PacketKind = "call"
	PacketCallback  PacketKind = "callback"
	PacketEvent     PacketKind = "event"
	PacketInspect   PacketKind = "inspect"
	PacketPing      PacketKind = "ping"
	PacketPong      PacketKind = "pong"
)

var packetKinds = map[string]PacketKind{
	"handshake": PacketHandshake,
	"call":      PacketCall,
	"callback":  PacketCallback,
	"event":     PacketEvent,
	"inspect":   PacketInspect,
	"ping":      PacketPing,
	"pong":      PacketPong,
}

// Packet is the decoded shape of one top-level record: at most one
// header key carrying the packet id and optional target, and at most
// one verb key carrying the kind-specific payload. The empty mapping
// decodes to a Packet with Heartbeat set.
type Packet struct {
	Heartbeat bool
	Kind      PacketKind
	ID        int64
	Target    string
	HasTarget bool
	Verb      string
	HasVerb   bool
	Args      Value
}

// DecodePacket interprets a parsed top-level Value as a Packet.
func DecodePacket(v Value) (Packet, error) {
	obj, ok := v.Object()
	if !ok {
		return Packet{}, fmt.Errorf("record: packet must be an object, got %s", v.Kind())
	}
	if obj.Len() == 0 {
		return Packet{Heartbeat: true}, nil
	}

	var headerKey string
	var kind PacketKind
	found := false
	for _, k := range obj.Keys() {
		if pk, ok := packetKinds[k]; ok {
			if found {
				return Packet{}, fmt.Errorf("record: packet has more than one header key")
			}
			headerKey, kind, found = k, pk, true
		}
	}
	if !found {
		return Packet{}, fmt.Errorf("record: packet has no recognized header key")
	}

	headerVal, _ := obj.Get(headerKey)
	header, ok := headerVal.Array()
	if !ok || len(header) < 1 || len(header) > 2 {
		return Packet{}, fmt.Errorf("record: header value must be a 1 or 2 element array")
	}
	id, ok := header[0].Int()
	if !ok {
		return Packet{}, fmt.Errorf("record: packet id must be an integer")
	}

	p := Packet{Kind: kind, ID: id}
	if len(header) == 2 {
		target, ok := header[1].String()
		if !ok {
			return Packet{}, fmt.Errorf("record: packet target must be a string")
		}
		p.Target, p.HasTarget = target, true
	}

	for _, k := range obj.Keys() {
		if k == headerKey {
			continue
		}
		if p.HasVerb {
			return Packet{}, fmt.Errorf("record: packet has more than one verb key")
		}
		verbVal, _ := obj.Get(k)
		p.Verb, p.HasVerb, p.Args = k, true, verbVal
	}

	return p, nil
}

// EncodePacket builds the wire-level record Value for a Packet.
func EncodePacket(p Packet) Value {
	if p.Heartbeat {
		return ObjectValue(NewObject())
	}
	obj := NewObject()
	header := []Value{Int(p.ID)}
	if p.HasTarget {
		header = append(header, String(p.Target))
	}
	obj.Set(string(p.Kind), Array(header...))
	if p.HasVerb {
		obj.Set(p.Verb, p.Args)
	}
	return ObjectValue(obj)
}
