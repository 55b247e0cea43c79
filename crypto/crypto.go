package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"github.com/btcsuite/btcd/btcec"
	ecies "github.com/ecies/go"
	"github.com/tendermint/tendermint/crypto"
)

func LoadTmKeys(privTmKey crypto.PrivKey, pubTmKey crypto.PubKey) (privKey []byte, pubKey []byte) {
	privKey = privTmKey.Bytes()[5:]
	pubKey = pubTmKey.Bytes()[5:]
	return
}

func NewKeyPair() (privKey []byte, pubKey []byte) {
	key, _ := btcec.NewPrivateKey(btcec.S256())
	return key.Serialize(), key.PubKey().SerializeUncompressed()
}

func Sign(privKey, message []byte) (signature []byte) {
	hash := sha256.Sum256(message)
	key, _ := btcec.PrivKeyFromBytes(btcec.S256(), privKey)
	sign, _ := key.Sign(hash[:])
	return sign.Serialize()
}

func Verify(pubKey, message []byte, signature []byte) (signed bool) {
	hash := sha256.Sum256(message)
	key, err := btcec.ParsePubKey(pubKey, btcec.S256())
	if err != nil {
		return false
	}
	sign, err := btcec.ParseSignature(signature, btcec.S256())
	if err != nil {
		return false
	}
	return sign.Verify(hash[:], key)
}

func CheckPubKey(pubKey []byte) error {
	_, err := btcec.ParsePubKey(pubKey, btcec.S256())
	return err
}

func Encrypt(pubKey, message []byte) (encrypted []byte) {
	key, err := ecies.NewPublicKeyFromBytes(pubKey)
	if err != nil {
		return nil
	}
	encrypted, _ = ecies.Encrypt(key, message)
	return
}

func Decrypt(privKey, encrypted []byte) (message []byte) {
	key := ecies.NewPrivateKeyFromBytes(privKey)
	message, _ = ecies.Decrypt(key, encrypted)
	return
}

func SignED(privKey, message []byte) (signature []byte) {
	return ed25519.Sign(privKey, message)
}

func VerifyED(pubKey, message []byte, signature []byte) bool {
	return ed25519.Verify(pubKey, message, signature)
}
