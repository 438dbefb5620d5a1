package types

import "fmt"

// Minimal gogoproto plumbing for the hand-written message types. The chain
// serializes messages as amino JSON, so only the interface surface matters
// here.

func (msg *MsgCreateOrder) Reset()         { *msg = MsgCreateOrder{} }
func (msg *MsgCreateOrder) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCreateOrder) ProtoMessage()      {}

func (msg *MsgCancelOrder) Reset()         { *msg = MsgCancelOrder{} }
func (msg *MsgCancelOrder) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgCancelOrder) ProtoMessage()      {}

func (msg *MsgFillOrder) Reset()         { *msg = MsgFillOrder{} }
func (msg *MsgFillOrder) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgFillOrder) ProtoMessage()      {}

func (msg *MsgFillOrderWithOther) Reset()         { *msg = MsgFillOrderWithOther{} }
func (msg *MsgFillOrderWithOther) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgFillOrderWithOther) ProtoMessage()      {}

func (msg *MsgDispatchFillOrder) Reset()         { *msg = MsgDispatchFillOrder{} }
func (msg *MsgDispatchFillOrder) String() string { return fmt.Sprintf("%+v", *msg) }
func (*MsgDispatchFillOrder) ProtoMessage()      {}
