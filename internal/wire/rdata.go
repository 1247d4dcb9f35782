package wire

// decodeRDATA dispatches RDATA parsing on TYPE, with OPT handled first; the
// class is passed along but not consulted. Decoders read from r at its
// current offset, with rdlength giving the record's RDLENGTH; decoders that
// embed a domain name read through the full reader (so compression pointers
// into earlier parts of the message resolve correctly) and are checked by
// the caller for exact consumption.
func decodeRDATA(r *Reader, t Type, c Class, rdlength int) (RData, error) {
	if t == TypeOPT {
		return decodeOPT(r, rdlength)
	}

	switch t {
	case TypeA:
		return decodeAddr(r, 4)
	case TypeAAAA:
		return decodeAddr(r, 16)
	case TypeNS, TypeCNAME, TypePTR, TypeDNAME, TypeMD, TypeMF, TypeMB, TypeMG, TypeMR:
		name, err := r.ReadName()
		if err != nil {
			return nil, err
		}
		return &RDataName{Type: t, Target: name}, nil
	case TypeSOA:
		return decodeSOA(r)
	case TypeMX, TypeKX, TypeAFSDB:
		return decodePreferenceName(r, t)
	case TypeTXT:
		return decodeTXT(r, rdlength)
	case TypeSRV:
		return decodeSRV(r)
	case TypeNAPTR:
		return decodeNAPTR(r)
	case TypeHINFO:
		return decodeHINFO(r)
	case TypeRP:
		return decodeRP(r)
	case TypeDNSKEY, TypeCDNSKEY, TypeKEY:
		return decodeDNSKEY(r, rdlength, t)
	case TypeRRSIG, TypeSIG:
		return decodeRRSIG(r, rdlength, t)
	case TypeDS, TypeCDS:
		return decodeDS(r, rdlength, t)
	case TypeNSEC:
		return decodeNSEC(r, rdlength)
	case TypeNSEC3:
		return decodeNSEC3(r, rdlength)
	case TypeNSEC3PARAM:
		return decodeNSEC3PARAM(r, rdlength)
	case TypeCERT:
		return decodeCERT(r, rdlength)
	case TypeSVCB, TypeHTTPS:
		return decodeSVCB(r, rdlength, t)
	case TypeCAA:
		return decodeCAA(r, rdlength)
	case TypeURI:
		return decodeURI(r, rdlength)
	case TypeLOC:
		return decodeLOC(r)
	case TypeSSHFP:
		return decodeSSHFP(r, rdlength)
	case TypeTLSA, TypeSMIMEA:
		return decodeTLSA(r, rdlength, t)
	case TypeOPENPGPKEY:
		return decodeOPENPGPKEY(r, rdlength)
	case TypeZONEMD:
		return decodeZONEMD(r, rdlength)
	case TypeAPL:
		return decodeAPL(r, rdlength)
	case TypeIPSECKEY:
		return decodeIPSECKEY(r, rdlength)
	case TypeHIP:
		return decodeHIP(r, rdlength)
	case TypeEUI48:
		return decodeEUI(r, 6)
	case TypeEUI64:
		return decodeEUI(r, 8)
	case TypeDHCID:
		return decodeDHCID(r, rdlength)
	case TypeCSYNC:
		return decodeCSYNC(r, rdlength)
	case TypeWALLET:
		return decodeWallet(r, rdlength)
	default:
		return decodeRaw(r, t, rdlength)
	}
}
