// SPDX-License-Identifier: GPL-3.0-or-later

package bridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/queueworks/mqbridge/mqwire"
)

func TestMapError(t *testing.T) {
	tests := map[string]struct {
		compCode int32
		reason   int32
		wantNil  bool
		wantKind ErrorKind
	}{
		"ok is never an error":            {compCode: mqwire.CCOK, reason: mqwire.RCNone, wantNil: true},
		"truncation accepted on warning":  {compCode: mqwire.CCWarning, reason: mqwire.RCTruncatedMsgAccepted, wantNil: true},
		"broken connection":               {compCode: mqwire.CCFailed, reason: mqwire.RCConnectionBroken, wantKind: KindConnection},
		"quiescing":                       {compCode: mqwire.CCFailed, reason: mqwire.RCQMgrQuiescing, wantKind: KindConnection},
		"not authorized":                  {compCode: mqwire.CCFailed, reason: mqwire.RCNotAuthorized, wantKind: KindAuthorization},
		"host unreachable":                {compCode: mqwire.CCFailed, reason: mqwire.RCHostNotAvailable, wantKind: KindNetwork},
		"queue manager unavailable":       {compCode: mqwire.CCFailed, reason: mqwire.RCQMgrNotAvailable, wantKind: KindNetwork},
		"tls certificate":                 {compCode: mqwire.CCFailed, reason: mqwire.RCSSLCertificate, wantKind: KindNetwork},
		"unknown queue":                   {compCode: mqwire.CCFailed, reason: mqwire.RCUnknownObjectName, wantKind: KindQueue},
		"queue already exists":            {compCode: mqwire.CCFailed, reason: mqwire.RCObjectAlreadyExists, wantKind: KindQueue},
		"queue full":                      {compCode: mqwire.CCFailed, reason: mqwire.RCQFull, wantKind: KindQueue},
		"get inhibited":                   {compCode: mqwire.CCFailed, reason: mqwire.RCGetInhibited, wantKind: KindQueue},
		"no message":                      {compCode: mqwire.CCFailed, reason: mqwire.RCNoMsgAvailable, wantKind: KindMessage},
		"truncation failed":               {compCode: mqwire.CCWarning, reason: mqwire.RCTruncatedMsgFailed, wantKind: KindMessage},
		"unrecognized reason maps anyway": {compCode: mqwire.CCFailed, reason: 9876, wantKind: KindUnknown},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := mapError("testOp", test.compCode, test.reason, "SOME.QUEUE")
			if test.wantNil {
				assert.NoError(t, err)
				return
			}
			var mqErr *Error
			require.ErrorAs(t, err, &mqErr)
			assert.Equal(t, test.wantKind, mqErr.Kind)
			assert.Equal(t, "testOp", mqErr.Op)
			assert.Equal(t, test.compCode, mqErr.CompCode)
			assert.Equal(t, test.reason, mqErr.Reason, "numeric codes must survive the mapping")
		})
	}
}

func TestErrorStringCarriesCodes(t *testing.T) {
	err := mapError("browseMessages", mqwire.CCFailed, mqwire.RCUnknownObjectName, "DEV.MISSING")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "browseMessages")
	assert.Contains(t, err.Error(), "DEV.MISSING")
	assert.Contains(t, err.Error(), "2085")
}

func TestConnectionFailedPromotesUnknownKind(t *testing.T) {
	var mqErr *Error

	err := connectionFailed(4242, "QM1")
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindConnection, mqErr.Kind)

	err = connectionFailed(mqwire.RCNotAuthorized, "QM1")
	require.ErrorAs(t, err, &mqErr)
	assert.Equal(t, KindAuthorization, mqErr.Kind, "mapped kinds stay as mapped")
}

func TestMessageNotFound(t *testing.T) {
	err := messageNotFound("deleteMessage", "DEV.QUEUE.1")
	var mqErr *Error
	require.True(t, errors.As(err, &mqErr))
	assert.Equal(t, KindMessage, mqErr.Kind)
	assert.Equal(t, mqwire.RCNoMsgAvailable, mqErr.Reason)
	assert.Contains(t, err.Error(), "message not found")
}
